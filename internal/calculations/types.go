package calculations

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateKind вид годовой ставки
type RateKind int

const (
	RateKindUnknown RateKind = iota
	RateEffective            // TE
	RateNominal              // TN
)

// ParseRateKind разбирает метку вида ставки ("TE"/"TN" или полное имя)
func ParseRateKind(s string) (RateKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TE", "EFFECTIVE":
		return RateEffective, nil
	case "TN", "NOMINAL":
		return RateNominal, nil
	}
	return RateKindUnknown, fmt.Errorf("%w: unknown rate kind %q", ErrInvalidArgument, s)
}

func (k RateKind) String() string {
	switch k {
	case RateEffective:
		return "TE"
	case RateNominal:
		return "TN"
	}
	return "unknown"
}

// Period период ставки или капитализации.
// Нулевое значение означает "не задан" и ведет себя как месячный период.
type Period int

const (
	PeriodUnspecified Period = iota
	PeriodDaily
	PeriodBiweekly
	PeriodMonthly
	PeriodBimonthly
	PeriodQuarterly
	PeriodSemiannual
	PeriodAnnual
)

// ParsePeriod разбирает название периода. Нераспознанные значения
// возвращают PeriodUnspecified (месячный эквивалент).
func ParsePeriod(s string) Period {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return PeriodDaily
	case "seminal", "bi-weekly", "biweekly":
		return PeriodBiweekly
	case "monthly":
		return PeriodMonthly
	case "bi-monthly", "bimonthly":
		return PeriodBimonthly
	case "quarterly":
		return PeriodQuarterly
	case "semi-annually", "semiannual", "semi-annual":
		return PeriodSemiannual
	case "annual", "annually":
		return PeriodAnnual
	}
	return PeriodUnspecified
}

// DaysInPeriod возвращает длину периода в днях по конвенции 30/360
func (p Period) DaysInPeriod() int {
	switch p {
	case PeriodDaily:
		return 1
	case PeriodBiweekly:
		return 15
	case PeriodBimonthly:
		return 60
	case PeriodQuarterly:
		return 90
	case PeriodSemiannual:
		return 180
	case PeriodAnnual:
		return 360
	}
	return 30
}

// CompoundingsPerYear возвращает число капитализаций в году
func (p Period) CompoundingsPerYear() int {
	switch p {
	case PeriodDaily:
		return 360
	case PeriodBiweekly:
		return 24
	case PeriodBimonthly:
		return 6
	case PeriodQuarterly:
		return 4
	case PeriodSemiannual:
		return 2
	case PeriodAnnual:
		return 1
	}
	return 12
}

func (p Period) String() string {
	switch p {
	case PeriodDaily:
		return "daily"
	case PeriodBiweekly:
		return "bi-weekly"
	case PeriodMonthly:
		return "monthly"
	case PeriodBimonthly:
		return "bi-monthly"
	case PeriodQuarterly:
		return "quarterly"
	case PeriodSemiannual:
		return "semi-annually"
	case PeriodAnnual:
		return "annual"
	}
	return "unspecified"
}

// GraceType тип льготного периода
type GraceType int

const (
	GraceNone    GraceType = iota
	GraceTotal             // проценты капитализируются
	GracePartial           // выплачиваются только проценты
)

// ParseGraceType разбирает тип льготного периода
func ParseGraceType(s string) (GraceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return GraceNone, nil
	case "total":
		return GraceTotal, nil
	case "partial":
		return GracePartial, nil
	}
	return GraceNone, fmt.Errorf("%w: unknown grace period type %q", ErrInvalidArgument, s)
}

func (g GraceType) String() string {
	switch g {
	case GraceTotal:
		return "total"
	case GracePartial:
		return "partial"
	}
	return "none"
}

// StatementDelivery способ доставки выписки
type StatementDelivery int

const (
	DeliveryDigital StatementDelivery = iota
	DeliveryPhysical
)

// ParseStatementDelivery разбирает способ доставки выписки
func ParseStatementDelivery(s string) (StatementDelivery, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "digital", "email", "virtual":
		return DeliveryDigital, nil
	case "physical":
		return DeliveryPhysical, nil
	}
	return DeliveryDigital, fmt.Errorf("%w: unknown statement delivery %q", ErrInvalidArgument, s)
}

// DefaultPhysicalDeliveryFee плата за бумажную выписку по умолчанию
var DefaultPhysicalDeliveryFee = decimal.NewFromInt(10)

// Grace описывает льготный период
type Grace struct {
	Months int
	Type   GraceType
}

// Costs сопутствующие ежемесячные расходы
type Costs struct {
	LifeInsuranceRate     decimal.Decimal // месячная ставка от остатка долга
	PropertyInsuranceRate decimal.Decimal // месячная ставка от стоимости имущества
	PropertyValue         decimal.Decimal
	Commissions           decimal.Decimal
	AdminCosts            decimal.Decimal
	StatementDelivery     StatementDelivery
	PhysicalDeliveryFee   decimal.Decimal
}

// ScheduleInput параметры графика платежей
type ScheduleInput struct {
	Principal      decimal.Decimal
	MonthlyRate    decimal.Decimal
	InitialPayment decimal.Decimal
	TermMonths     int
	Grace          Grace
	Costs          Costs
}

// AmortizationEntry представляет один период графика платежей
type AmortizationEntry struct {
	Period              int             `json:"period"`
	BeginningBalance    decimal.Decimal `json:"beginning_balance"`
	ScheduledPayment    decimal.Decimal `json:"scheduled_payment"`
	PrincipalPayment    decimal.Decimal `json:"principal_payment"`
	InterestPayment     decimal.Decimal `json:"interest_payment"`
	LifeInsurance       decimal.Decimal `json:"life_insurance"`
	PropertyInsurance   decimal.Decimal `json:"property_insurance"`
	Commissions         decimal.Decimal `json:"commissions"`
	AdminCosts          decimal.Decimal `json:"admin_costs"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	TotalPayment        decimal.Decimal `json:"total_payment"`
	EndingBalance       decimal.Decimal `json:"ending_balance"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
	CashFlow            decimal.Decimal `json:"cash_flow"`
	IsGracePeriod       bool            `json:"is_grace_period"`
}

// SolverSettings параметры метода Ньютона
type SolverSettings struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultSolverSettings: начальное приближение 1% в месяц, 100 итераций, 1e-5
var DefaultSolverSettings = SolverSettings{MaxIterations: 100, Tolerance: 0.00001}

// IRRResult результат поиска внутренней нормы доходности
type IRRResult struct {
	Percent    decimal.Decimal `json:"percent"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
}

// ScheduleSummary итоги по графику
type ScheduleSummary struct {
	Periods        int             `json:"periods"`
	GracePeriods   int             `json:"grace_periods"`
	TotalScheduled decimal.Decimal `json:"total_scheduled"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalInsurance decimal.Decimal `json:"total_insurance"`
	TotalFees      decimal.Decimal `json:"total_fees"`
}

// OpportunityCost описание ставки альтернативной доходности (COK)
type OpportunityCost struct {
	Rate           decimal.Decimal
	Kind           RateKind
	Period         Period
	Capitalization Period
}

// SimulationInput полный набор параметров симуляции кредита
type SimulationInput struct {
	Principal   decimal.Decimal
	AnnualRate  decimal.Decimal
	RateKind    RateKind
	RatePeriod  Period
	TermMonths  int
	Grace       Grace
	Costs       Costs
	Opportunity OpportunityCost
	Solver      SolverSettings // нулевое значение: DefaultSolverSettings
}

// SimulationResult результат симуляции
type SimulationResult struct {
	MonthlyRate    decimal.Decimal     `json:"monthly_rate"`
	MonthlyPayment decimal.Decimal     `json:"monthly_payment"`
	DiscountRate   decimal.Decimal     `json:"discount_rate"`
	NPV            decimal.Decimal     `json:"npv"`
	IRR            IRRResult           `json:"irr"`
	Summary        ScheduleSummary     `json:"summary"`
	CashFlows      []decimal.Decimal   `json:"cash_flows"`
	Schedule       []AmortizationEntry `json:"schedule"`
}
