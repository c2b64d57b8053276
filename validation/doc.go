// Package validation checks configuration and credential input.
//
// Two forms are supported. Schema validation checks a loosely typed map
// against per-field rules and reports every violation at once:
//
//	schema := validation.Schema{
//	    "app_key":    {Type: validation.TypeString, Required: true},
//	    "app_secret": {Type: validation.TypeString, Required: true},
//	}
//	validated, err := validation.ValidateSchema(candidate, schema)
//
// Struct tag validation uses go-playground/validator:
//
//	type Config struct {
//	    Endpoint string `validate:"omitempty,url"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// Both return an *errors.AppError with code VALIDATION_ERROR.
package validation
