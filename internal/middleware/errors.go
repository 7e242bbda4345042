package middleware

import "errors"

var (
	errMissingBearer     = errors.New("missing or malformed bearer token")
	errBearerMismatch    = errors.New("bearer token does not match")
	errStaticBearerUnset = errors.New("static bearer token is not configured")

	errMissingSignature   = errors.New("no signature provided")
	errSignatureFormat    = errors.New("invalid signature format")
	errSignatureTimestamp = errors.New("invalid signature timestamp")
	errSignatureExpired   = errors.New("signature expired")
	errSignatureMismatch  = errors.New("invalid signature")
	errBodyTooLarge       = errors.New("request body too large")

	errCookieMismatch = errors.New("auth cookie missing or does not match bearer token")
	errMissingClaims  = errors.New("no user claims on request")
)
