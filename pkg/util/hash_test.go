package util_test

import (
	"testing"

	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/stretchr/testify/assert"
)

func TestStripe(t *testing.T) {
	a := assert.New(t)

	a.Equal(util.HashKey("shipment-march"), util.HashKey("shipment-march"))
	a.NotEqual(util.HashKey("shipment-march"), util.HashKey("shipment-april"))

	for _, key := range []string{"", "a", "shipment-march", "factory-temp-01"} {
		s := util.Stripe(key, 64)
		a.True(s >= 0 && s < 64)
		a.Equal(s, util.Stripe(key, 64))
	}

	a.Equal(0, util.Stripe("anything", 1))
	a.Equal(0, util.Stripe("anything", 0))
}
