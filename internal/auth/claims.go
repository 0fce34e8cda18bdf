package auth

import "context"

// DeviceClaims identifies the authenticated app installation for the request
type DeviceClaims struct {
	DeviceID string
	TokenID  string
}

type contextKey string

var deviceClaimsKey contextKey = "device_claims"

func SetDeviceClaims(ctx context.Context, claims *DeviceClaims) context.Context {
	return context.WithValue(ctx, deviceClaimsKey, claims)
}

func GetDeviceClaims(ctx context.Context) *DeviceClaims {
	val := ctx.Value(deviceClaimsKey)
	if claims, ok := val.(*DeviceClaims); ok {
		return claims
	}
	return nil
}
