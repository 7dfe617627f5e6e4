package sync

import (
	"log"

	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/types"
)

// RabbitMasterChangeHandler bridges catalog changes to the rabbit transport.
// Upserts are batched through a queue handler so bulk imports become a few
// large publishes instead of one per product.
type RabbitMasterChangeHandler struct {
	Master *RabbitTransportMaster
	queue  *common.QueueHandler[*types.Product]
}

func NewRabbitMasterChangeHandler(master *RabbitTransportMaster) *RabbitMasterChangeHandler {
	h := &RabbitMasterChangeHandler{Master: master}
	h.queue = common.NewQueueHandler(func(items []*types.Product) {
		if err := master.SendProductsUpserted(items); err != nil {
			log.Printf("failed to publish %d product upserts: %v", len(items), err)
		}
	}, 500)
	return h
}

func (h *RabbitMasterChangeHandler) ProductsUpserted(items []*types.Product) {
	h.queue.Add(items...)
}

func (h *RabbitMasterChangeHandler) ProductDeleted(sku string) {
	if err := h.Master.SendProductDeleted(sku); err != nil {
		log.Printf("failed to publish delete for %s: %v", sku, err)
	}
}

// Flush publishes everything still queued, used as a shutdown hook.
func (h *RabbitMasterChangeHandler) Flush() {
	h.queue.Flush()
}
