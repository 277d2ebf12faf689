package matchpublisherv1

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromFill(t *testing.T) {
	var market, makerAddr, takerAddr orderbookv1.Address
	market[19] = 0xee
	makerAddr[19] = 0x01
	takerAddr[19] = 0x02

	expiration := time.Unix(1_700_000_000, 0).UTC()
	maker := orderbookv1.NewOrder(makerAddr, market, orderbookv1.Ask, big.NewInt(100), big.NewInt(5), expiration, nil)
	taker := orderbookv1.NewOrder(takerAddr, market, orderbookv1.Bid, big.NewInt(100), big.NewInt(5), expiration, nil)

	fill := orderbookv1.Fill{
		Maker:    maker.ID,
		Taker:    taker.ID,
		Quantity: big.NewInt(5),
		Price:    big.NewInt(100),
	}

	at := time.Unix(1_650_000_000, 0).UTC()
	event := CreateFromFill(market, fill, maker, taker, orderbookv1.FullMatch, at)

	assert.Equal(t, market.Hex(), event.Market)
	assert.Equal(t, makerAddr.Hex(), event.Maker)
	assert.Equal(t, takerAddr.Hex(), event.Taker)
	assert.Equal(t, "Bid", event.TakerSide)
	assert.Equal(t, "100", event.Price)
	assert.Equal(t, "5", event.Quantity)
	assert.Equal(t, "FullMatch", event.Status)
	assert.Equal(t, at.Unix(), event.Timestamp)

	var decoded MatchEvent
	require.NoError(t, json.Unmarshal(ToBytes(event), &decoded))
	assert.Equal(t, *event, decoded)
}
