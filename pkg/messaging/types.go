package messaging

type ChangeTopic string

const (
	ProductsUpsertedTopic = ChangeTopic("product_upserted")
	ProductDeletedTopic   = ChangeTopic("product_deleted")
	TrackingTopic         = ChangeTopic("tracking")
)
