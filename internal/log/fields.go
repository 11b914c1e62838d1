package log

// Common field names for structured logging
const (
	FieldComponent       = "component"
	FieldRunID           = "run_id"
	FieldStrategy        = "strategy"
	FieldLoanCount       = "loan_count"
	FieldLoanID          = "loan_id"
	FieldPeriods         = "periods"
	FieldBaselinePeriods = "baseline_periods"
	FieldInterestPaid    = "interest_paid"
	FieldInterestSaved   = "interest_saved"
	FieldDuration        = "duration_ms"
	FieldSuccess         = "success"
	FieldError           = "error"
	FieldOperation       = "operation"
	FieldBackend         = "backend"
	FieldQueue           = "queue"
	FieldExchange        = "exchange"
	FieldCacheHit        = "cache_hit"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentEngine      = "engine"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentResultStore = "result_store"
	ComponentConfig      = "config"
)

// Operations defines standard operation names
const (
	OpPlan     = "plan"
	OpConsume  = "consume"
	OpPublish  = "publish"
	OpStore    = "store"
	OpLookup   = "lookup"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
