package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldKey           = "key"
	FieldBackend       = "backend"
	FieldDBPath        = "db_path"
	FieldFolderID      = "folder_id"
	FieldFolderName    = "folder_name"
	FieldCategoryID    = "category_id"
	FieldCategoryIndex = "category_index"
	FieldCategoryName  = "category_name"
	FieldItemID        = "item_id"
	FieldItemIndex     = "item_index"
	FieldItemName      = "item_name"
	FieldPrice         = "price"
	FieldLabel         = "label"
	FieldCount         = "count"
	FieldEmail         = "email"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentStorage     = "storage"
	ComponentCache       = "cache"
	ComponentBackend     = "backend"
	ComponentFolders     = "folders"
	ComponentCategories  = "categories"
	ComponentViews       = "views"
	ComponentShopping    = "shopping"
	ComponentCredentials = "credentials"
	ComponentExport      = "export"
	ComponentCLI         = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpLoad     = "load"
	OpSave     = "save"
	OpToggle   = "toggle"
	OpExport   = "export"
	OpValidate = "validate"
	OpLogin    = "login"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeCorrupt       = "corrupt_state"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeAuth          = "auth_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category field
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithKey adds the storage key field
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// WithFolder adds folder-related fields
func (f LogFields) WithFolder(id, name string) LogFields {
	f[FieldFolderID] = id
	if name != "" {
		f[FieldFolderName] = name
	}
	return f
}

// WithItem adds item-related fields
func (f LogFields) WithItem(id, name, price, label string) LogFields {
	f[FieldItemID] = id
	f[FieldItemName] = name
	f[FieldPrice] = price
	f[FieldLabel] = label
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
