package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldCollection = "collection"
	FieldCount      = "count"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldMember     = "member"
	FieldTitle      = "title"
	FieldDate       = "date"
	FieldNotifID    = "notification_id"
	FieldNotifType  = "notification_type"
	FieldPriority   = "priority"
	FieldQueue      = "queue"
	FieldExchange   = "exchange"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldSheetsRef  = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentGateway  = "gateway"
	ComponentRemote   = "remote"
	ComponentNotify   = "notify"
	ComponentPlatform = "platform"
	ComponentStorage  = "storage"
	ComponentBridge   = "bridge"
	ComponentExport   = "export"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpLoad      = "load"
	OpBootstrap = "bootstrap"
	OpPublish   = "publish"
	OpSweep     = "sweep"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
