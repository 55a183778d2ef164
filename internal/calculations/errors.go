package calculations

import "errors"

var (
	// ErrInvalidArgument возвращается, если входные параметры не позволяют выполнить расчет
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrArithmeticHazard возвращается, если итерация привела к делению на ноль или нечисловому значению
	ErrArithmeticHazard = errors.New("arithmetic hazard")
)
