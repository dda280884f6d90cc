// Package listeners wires domain events to their side effects: WebSocket
// notifications and queued follow-up jobs.
package listeners

import (
	"encoding/json"

	"github.com/rewearhq/rewear/app/jobs"
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/event"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/queue"
	"github.com/rewearhq/rewear/pkg/ws"
)

// notification is the payload pushed over /ws/notifications.
type notification struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func push(hub *ws.Hub, userID uint, ev string, data interface{}) {
	raw, err := json.Marshal(notification{Event: ev, Data: data})
	if err != nil {
		logger.Error("listeners: marshal notification", "event", ev, "error", err)
		return
	}
	hub.SendToUser(userID, raw)
}

// Register hooks every domain event up to the hub and the queue. Call once at
// boot, after the hub is running.
func Register(hub *ws.Hub) {
	swaps := repositories.NewSwapRepository()

	// The requested item's owner learns about new swap requests; the
	// requester learns about every decision on their request.
	event.Listen("swap.requested", func(payload interface{}) {
		swap, ok := payload.(models.Swap)
		if !ok {
			return
		}
		full, err := swaps.FindByID(swap.ID)
		if err != nil {
			return
		}
		if full.RequestedItem != nil {
			push(hub, full.RequestedItem.OwnerID, "swap.requested", full)
		}
	})
	for _, ev := range []string{"swap.accepted", "swap.rejected", "swap.completed", "swap.cancelled"} {
		ev := ev
		event.Listen(ev, func(payload interface{}) {
			swap, ok := payload.(models.Swap)
			if !ok {
				return
			}
			push(hub, swap.RequesterID, ev, swap)
		})
	}

	event.Listen("redemption.requested", func(payload interface{}) {
		red, ok := payload.(models.Redemption)
		if !ok {
			return
		}
		if red.Item != nil {
			push(hub, red.Item.OwnerID, "redemption.requested", red)
		}
	})
	for _, ev := range []string{"redemption.approved", "redemption.rejected"} {
		ev := ev
		event.Listen(ev, func(payload interface{}) {
			red, ok := payload.(models.Redemption)
			if !ok {
				return
			}
			push(hub, red.UserID, ev, red)
			if ev == "redemption.approved" && red.Item != nil {
				push(hub, red.Item.OwnerID, ev, red)
			}
		})
	}

	event.Listen("message.sent", func(payload interface{}) {
		msg, ok := payload.(models.Message)
		if !ok {
			return
		}
		push(hub, msg.ReceiverID, "message.sent", msg)
	})

	// Manual adjustments queue a reconcile pass over the touched account.
	event.Listen("points.adjusted", func(payload interface{}) {
		tx, ok := payload.(models.PointsTransaction)
		if !ok {
			return
		}
		if err := queue.Dispatch(jobs.ReconcileBalanceJob{UserID: tx.UserID}); err != nil {
			logger.Error("listeners: dispatch reconcile", "user_id", tx.UserID, "error", err)
		}
		push(hub, tx.UserID, "points.adjusted", tx)
	})
}
