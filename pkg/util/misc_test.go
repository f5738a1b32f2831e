package util_test

import (
	"testing"

	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name    string `diff:"name"`
	Content string `diff:"content"`
	Status  string `diff:"status"`
}

func TestChangedFields(t *testing.T) {
	a := assert.New(t)

	before := sample{Name: "Shipment March", Content: "http://a", Status: "active"}
	after := sample{Name: "Shipment March", Content: "http://b", Status: "inactive"}

	fields, err := util.ChangedFields(before, after)
	a.NoError(err)
	a.ElementsMatch([]string{"content", "status"}, fields)

	fields, err = util.ChangedFields(before, before)
	a.NoError(err)
	a.Empty(fields)
}
