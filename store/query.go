package store

// Operator is a comparison applied to a single document field.
type Operator string

const (
	OpEq  Operator = "="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
)

// Condition is one field predicate. Conditions in a Query are AND-combined.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Order is an optional order-by clause.
type Order struct {
	Field string
	Desc  bool
}

// Query is the store-native query shape produced by the criteria translator.
// The zero value is an unconstrained collection scan.
type Query struct {
	Conditions []Condition
	OrderBy    *Order
}

// Where appends an AND-combined condition.
func (q Query) Where(field string, op Operator, value any) Query {
	q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: value})
	return q
}

// Sort sets the order-by clause.
func (q Query) Sort(field string, desc bool) Query {
	q.OrderBy = &Order{Field: field, Desc: desc}
	return q
}

// IsUnconstrained reports whether the query is a bare collection scan.
func (q Query) IsUnconstrained() bool {
	return len(q.Conditions) == 0 && q.OrderBy == nil
}
