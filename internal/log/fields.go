package log

// Common field names for structured logging
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
	FieldSession     = "session"
	FieldRecordID    = "record_id"
	FieldRecordKind  = "record_kind"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldMonth       = "month"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentReport   = "report"
	ComponentForecast = "forecast"
	ComponentSession  = "session"
	ComponentEvents   = "events"
	ComponentSeed     = "seed"
)

// Operations defines standard operation names
const (
	OpAppend     = "append"
	OpDeactivate = "deactivate"
	OpBalance    = "balance"
	OpByCategory = "by_category"
	OpMonthly    = "monthly_totals"
	OpProject    = "project"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
