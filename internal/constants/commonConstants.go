package constants

type (
	APIStatus   string
	CachePrefix string
	StoreKey    string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSnapshot CachePrefix = "SNAP_"
	CachePrefixProducts CachePrefix = "PRODUCTS_"

	// Stable keys the durable stores persist their blobs under
	StoreKeyWatchlist   StoreKey = "watchlist:refs"
	StoreKeyEntitlement StoreKey = "entitlement:state"
)
