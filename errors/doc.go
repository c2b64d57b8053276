// Package errors provides the error taxonomy shared by the shop client.
//
// Every failure the client surfaces is an *AppError carrying a
// machine-readable ErrorCode:
//
//   - VALIDATION_ERROR: a credential or config field is missing or mistyped.
//     Returned by shop.New; no client is built.
//   - SIGNING_ERROR: the request could not be signed. Nothing is dispatched.
//   - SYSTEM_ERROR: the transport failed (connection, timeout, undecodable body).
//   - APPLICATION_ERROR: the platform answered with a non-zero code. The
//     platform envelope is available through Payload.
//
// Callers branch with the Is* predicates:
//
//	body, err := client.Get(ctx, "/order/202309/orders")
//	switch {
//	case errors.IsApplication(err):
//	    payload := errors.Payload(err)
//	case errors.IsSystem(err):
//	    // retry later
//	}
package errors
