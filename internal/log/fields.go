package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldCollection  = "collection"
	FieldYearMonth   = "year_month"
	FieldDate        = "date"
	FieldExpenseID   = "expense_id"
	FieldGoalID      = "goal_id"
	FieldGoalName    = "goal_name"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldPoolBalance = "pool_balance"
	FieldStartBudget = "start_budget"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentExpense  = "expense"
	ComponentBudget   = "budget"
	ComponentGoal     = "goal"
	ComponentPool     = "pool"
	ComponentTransfer = "transfer"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpSnapshot = "snapshot"
	OpPrune    = "prune"
	OpReset    = "reset"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
