package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/kandttextiles/ktportal/pkg/device"
	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestOpenStore(t *testing.T) {
	a := assert.New(t)

	setDefaults()
	defer viper.Reset()

	viper.Set("registry.backend", backendMemory)
	s, err := openStore()
	a.NoError(err)
	a.NoError(s.Close())

	path := util.TempPath("registry", "db")
	defer os.Remove(path)

	viper.Set("registry.backend", backendBolt)
	viper.Set("registry.path", path)
	s, err = openStore()
	a.NoError(err)
	a.IsType(&device.BoltStore{}, s)
	a.NoError(s.Close())

	viper.Set("registry.backend", "mongo")
	_, err = openStore()
	a.Error(err)
}

func TestNewCore(t *testing.T) {
	a := assert.New(t)

	setDefaults()
	defer viper.Reset()

	viper.Set("registry.backend", backendMemory)
	viper.Set("registry.cache", true)

	ctx := context.Background()

	c, _, err := newCore(ctx)
	a.NoError(err)
	defer c.Close()

	d, err := c.Redeem(ctx, "eyJpZCI6InRlc3QiLCJjb250ZW50IjoiaHR0cDovL2V4LmNvbSJ9")
	a.NoError(err)
	a.Equal("test", d.ID)

	feed, err := c.Feed()
	a.NoError(err)
	a.NotNil(feed)
}

func TestListFilter(t *testing.T) {
	a := assert.New(t)

	listCmd.Flags().Set("status", "active")
	defer listCmd.Flags().Set("status", "")

	index, value, err := listFilter(listCmd)
	a.NoError(err)
	a.Equal(device.IndexStatus, index)
	a.Equal("active", value)

	listCmd.Flags().Set("type", "GPS")
	defer listCmd.Flags().Set("type", "")

	_, _, err = listFilter(listCmd)
	a.Error(err)
}

func TestNewCoreReleasesStore(t *testing.T) {
	a := assert.New(t)

	setDefaults()
	defer viper.Reset()

	path := util.TempPath("registry", "db")
	defer os.Remove(path)

	viper.Set("registry.backend", backendBolt)
	viper.Set("registry.path", path)
	viper.Set("feed.endpoint", "not a url")

	_, _, err := newCore(context.Background())
	a.Error(err)

	// the file is not left locked behind
	s, err := openStore()
	a.NoError(err)
	a.NoError(s.Close())
}

func TestDescribeContent(t *testing.T) {
	a := assert.New(t)

	a.Equal("iframe https://ex.com/map", describeContent(device.InferContentRef(`<iframe src="https://ex.com/map" width="600"></iframe>`)))
	a.Equal("iframe", describeContent(device.Iframe{HTML: "<iframe></iframe>"}))
	a.Equal("image https://ex.com/a.png", describeContent(device.InferContentRef("https://ex.com/a.png")))
	a.Equal("link https://ex.com", describeContent(device.InferContentRef("https://ex.com")))
	a.Equal("script (8 bytes)", describeContent(device.NewContentRef(device.CTScript, "alert(1)")))
}
