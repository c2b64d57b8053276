// Package config loads client configuration from a YAML file, a .env file
// and environment variables.
//
// Sources are applied in that order, later ones winning. With WithEnvPrefix
// only variables carrying the prefix are bound, and the prefix is stripped
// before the key is matched:
//
//	TIKTOK_SHOP_ENDPOINT        -> endpoint
//	TIKTOK_SHOP_CREDENTIAL_APP_KEY -> credential.app_key
package config
