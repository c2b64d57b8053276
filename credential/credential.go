// Package credential holds the app and shop credential used to authenticate
// calls to the platform, and the rules for merging and validating it.
package credential

import (
	"github.com/letanthang/tiktok-shop-ex/util"
	"github.com/letanthang/tiktok-shop-ex/validation"
)

// Field names as they appear in config files and validation errors.
const (
	FieldAppKey      = "app_key"
	FieldAppSecret   = "app_secret"
	FieldAccessToken = "access_token"
	FieldShopID      = "shop_id"
	FieldShopCipher  = "shop_cipher"
)

// Credential identifies the calling app and, optionally, the shop it acts for.
type Credential struct {
	AppKey      string `mapstructure:"app_key" json:"app_key"`
	AppSecret   string `mapstructure:"app_secret" json:"-"`
	AccessToken string `mapstructure:"access_token" json:"-"`
	ShopID      string `mapstructure:"shop_id" json:"shop_id,omitempty"`
	ShopCipher  string `mapstructure:"shop_cipher" json:"shop_cipher,omitempty"`
}

// Schema requires app_key and app_secret; the rest are optional strings.
var Schema = validation.Schema{
	FieldAppKey:      {Type: validation.TypeString, Required: true},
	FieldAppSecret:   {Type: validation.TypeString, Required: true},
	FieldAccessToken: {Type: validation.TypeString},
	FieldShopID:      {Type: validation.TypeString},
	FieldShopCipher:  {Type: validation.TypeString},
}

// Merge returns defaults with every non-empty field of override applied.
func Merge(defaults, override Credential) Credential {
	return Credential{
		AppKey:      util.Coalesce(override.AppKey, defaults.AppKey),
		AppSecret:   util.Coalesce(override.AppSecret, defaults.AppSecret),
		AccessToken: util.Coalesce(override.AccessToken, defaults.AccessToken),
		ShopID:      util.Coalesce(override.ShopID, defaults.ShopID),
		ShopCipher:  util.Coalesce(override.ShopCipher, defaults.ShopCipher),
	}
}

// Validate checks c against Schema. The error, if any, is a VALIDATION_ERROR
// listing every missing field.
func Validate(c Credential) (Credential, error) {
	m, err := validation.ValidateSchema(c.ToMap(), Schema)
	if err != nil {
		return Credential{}, err
	}
	return FromMap(m), nil
}

// ToMap returns the non-empty fields of c keyed by field name.
func (c Credential) ToMap() map[string]any {
	m := make(map[string]any, 5)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set(FieldAppKey, c.AppKey)
	set(FieldAppSecret, c.AppSecret)
	set(FieldAccessToken, c.AccessToken)
	set(FieldShopID, c.ShopID)
	set(FieldShopCipher, c.ShopCipher)
	return m
}

// FromMap builds a Credential from string values in m. Other types are ignored.
func FromMap(m map[string]any) Credential {
	get := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return Credential{
		AppKey:      get(FieldAppKey),
		AppSecret:   get(FieldAppSecret),
		AccessToken: get(FieldAccessToken),
		ShopID:      get(FieldShopID),
		ShopCipher:  get(FieldShopCipher),
	}
}

// HasSecret reports whether c can sign requests.
func (c Credential) HasSecret() bool {
	return !util.IsBlank(c.AppSecret)
}

// String never includes the secret or the access token.
func (c Credential) String() string {
	return "Credential{app_key=" + c.AppKey + ", app_secret=" + util.MaskSecret(c.AppSecret, 0) +
		", access_token=" + util.MaskSecret(c.AccessToken, 0) + ", shop_id=" + c.ShopID + "}"
}
