// Package shop is the TikTok Shop Open API client.
//
// A Client signs every request with the app secret, sends it through an
// ordered middleware chain and normalizes the platform's response envelope.
//
//	cfg, err := shop.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	client, err := shop.New(cfg, shop.Options{})
//	if err != nil {
//	    return err // VALIDATION_ERROR: missing app_key or app_secret
//	}
//	body, err := client.Get(ctx, "/order/202309/orders",
//	    shop.WithQuery("ids", "576461413038785752"))
//
// # Errors
//
// Every error is an *errors.AppError:
//
//   - VALIDATION_ERROR from New when the credential or config is invalid;
//   - SIGNING_ERROR when a call has no secret; nothing is sent;
//   - SYSTEM_ERROR when the round trip fails; it is logged once;
//   - APPLICATION_ERROR when the platform answers with a non-zero code;
//     errors.Payload returns the platform body.
//
// # Configuration
//
// LoadConfig reads ./config.yml (or ./cmd/shopctl/config.yml), .env and
// TIKTOK_SHOP_* variables:
//
//	TIKTOK_SHOP_CREDENTIAL_APP_KEY=...
//	TIKTOK_SHOP_CREDENTIAL_APP_SECRET=...
//	TIKTOK_SHOP_SIGN_VERSION=v2
package shop
