package domain

// RuleOp is one arithmetic operation of a statistics rule step.
type RuleOp string

const (
	OpAdd RuleOp = "add" // sum of all resolved args
	OpSub RuleOp = "sub" // left-to-right subtraction from the first arg
	OpMul RuleOp = "mul" // product of all resolved args
	OpDiv RuleOp = "div" // first / second, 0 when the divisor is exactly 0
)

// Arg references one operand of a rule step. Resolution precedence at
// evaluation time: the running accumulator ("prev"), then an already-computed
// column of the same row, then an account number looked up in the sums.
type Arg struct {
	Prev bool   `json:"prev,omitempty"`
	Name string `json:"name,omitempty"`
}

// PrevArg references the running accumulator.
func PrevArg() Arg { return Arg{Prev: true} }

// RefArg references a computed column key or an account number.
func RefArg(name string) Arg { return Arg{Name: name} }

// RuleStep is one step of an ordered rule. The result of each step becomes
// the accumulator for the next.
type RuleStep struct {
	Op   RuleOp `json:"op"`
	Args []Arg  `json:"args"`
}

// ColumnDef declares one derived column of a statistics row. Exactly one of
// Year, Account, or Rule is set. Later columns may reference earlier ones by
// key, which keeps the dependency chain strictly left to right.
type ColumnDef struct {
	Key     string     `json:"key"`
	LabelDe string     `json:"labelDe"`
	LabelEn string     `json:"labelEn"`
	Year    bool       `json:"year,omitempty"`    // emits the row year
	Account string     `json:"account,omitempty"` // direct account lookup
	Rule    []RuleStep `json:"rule,omitempty"`    // ordered steps

	Visible   bool   `json:"visible"`             // presentation hint only
	Format    string `json:"format,omitempty"`    // presentation hint, passed through
	Unit      string `json:"unit,omitempty"`      // presentation hint, passed through
	Precision int    `json:"precision,omitempty"` // decimal places, 0 means default (2)
}

// UnitRevenueColumns is the built-in "unit revenue" rule set: rent, the
// non-allocable maintenance share, gross profit, depreciation, tax, net
// profit, and net rentability per unit per year.
func UnitRevenueColumns() []ColumnDef {
	return []ColumnDef{
		{Key: "year", LabelDe: "Jahr", LabelEn: "Year", Year: true, Visible: true},
		{Key: "rent", LabelDe: "Mieteinnahmen", LabelEn: "Rent", Account: "1000", Visible: true, Format: "currency"},
		{Key: "hgnu", LabelDe: "Hausgeld nicht umlagefähig", LabelEn: "Non-allocable maintenance", Visible: true, Format: "currency",
			Rule: []RuleStep{
				{Op: OpAdd, Args: []Arg{RefArg("2001"), RefArg("2004")}},
			}},
		{Key: "zinsen", LabelDe: "Zinsen", LabelEn: "Interest", Account: "2006", Visible: true, Format: "currency"},
		{Key: "gwb", LabelDe: "Gewinn brutto", LabelEn: "Gross profit", Visible: true, Format: "currency",
			Rule: []RuleStep{
				{Op: OpSub, Args: []Arg{RefArg("rent"), RefArg("hgnu")}},
				{Op: OpSub, Args: []Arg{PrevArg(), RefArg("zinsen")}},
			}},
		{Key: "abschr", LabelDe: "Abschreibungen", LabelEn: "Depreciation", Visible: false, Format: "currency",
			Rule: []RuleStep{
				{Op: OpAdd, Args: []Arg{RefArg("2007"), RefArg("2008")}},
			}},
		{Key: "steuer", LabelDe: "Steuer", LabelEn: "Tax", Visible: true, Format: "currency",
			Rule: []RuleStep{
				{Op: OpSub, Args: []Arg{RefArg("gwb"), RefArg("abschr")}},
				{Op: OpMul, Args: []Arg{PrevArg(), RefArg("2009")}},
			}},
		{Key: "gwn", LabelDe: "Gewinn netto", LabelEn: "Net profit", Visible: true, Format: "currency",
			Rule: []RuleStep{
				{Op: OpSub, Args: []Arg{RefArg("gwb"), RefArg("steuer")}},
			}},
		{Key: "netRentab", LabelDe: "Nettomietrendite", LabelEn: "Net rentability", Visible: true, Format: "percent", Unit: "%", Precision: 4,
			Rule: []RuleStep{
				{Op: OpDiv, Args: []Arg{RefArg("gwn"), RefArg("3000")}},
			}},
	}
}

// UnitCostColumns is the built-in "unit cost" rule set: the tenant balance
// per unit per year.
func UnitCostColumns() []ColumnDef {
	return []ColumnDef{
		{Key: "year", LabelDe: "Jahr", LabelEn: "Year", Year: true, Visible: true},
		{Key: "saldo", LabelDe: "Mietersaldo", LabelEn: "Tenant balance", Visible: true, Format: "currency",
			Rule: []RuleStep{
				{Op: OpSub, Args: []Arg{RefArg("1001"), RefArg("2000"), RefArg("2006")}},
			}},
	}
}
