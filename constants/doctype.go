package constants

// DataType distinguishes sales records from purchase (expense) records in
// the combined outputs.
type DataType string

const (
	DataTypeSales    DataType = "Sales"
	DataTypeExpenses DataType = "Expenses"
)

// TemplateName returns the template the data type normalizes against.
func (d DataType) TemplateName() string {
	if d == DataTypeExpenses {
		return "purchases"
	}
	return "sales"
}
