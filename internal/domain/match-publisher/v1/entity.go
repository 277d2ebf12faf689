package matchpublisherv1

import (
	"encoding/json"
	"strconv"
	"time"

	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
)

// MatchEvent is the wire payload published for every fill the engine
// produces. Integer fields use the same decimal string encoding as orders.
type MatchEvent struct {
	Market    string `json:"market"`
	MakerID   string `json:"maker_id"`
	TakerID   string `json:"taker_id"`
	Maker     string `json:"maker"`
	Taker     string `json:"taker"`
	TakerSide string `json:"taker_side"`
	Price     string `json:"price"`
	Quantity  string `json:"quantity"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// CreateFromFill builds a match event from one fill, the two orders behind
// it and the disposition of the taker's submission.
func CreateFromFill(
	market orderbookv1.Address,
	fill orderbookv1.Fill,
	maker, taker *orderbookv1.Order,
	status orderbookv1.OrderStatus,
	at time.Time,
) *MatchEvent {
	return &MatchEvent{
		Market:    market.Hex(),
		MakerID:   formatOrderID(fill.Maker),
		TakerID:   formatOrderID(fill.Taker),
		Maker:     maker.Trader.Hex(),
		Taker:     taker.Trader.Hex(),
		TakerSide: taker.Side.String(),
		Price:     fill.Price.String(),
		Quantity:  fill.Quantity.String(),
		Status:    status.String(),
		Timestamp: at.Unix(),
	}
}

func formatOrderID(id orderbookv1.OrderID) string {
	return strconv.FormatUint(id, 10)
}

// ToBytes serialises the event for the wire. Marshalling a struct of strings
// and ints cannot fail.
func ToBytes(event *MatchEvent) []byte {
	buf, _ := json.Marshal(event)
	return buf
}
