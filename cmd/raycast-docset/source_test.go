package main_test

import (
	"context"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	main "github.com/ichoosetoaccept/raycast-docset/cmd/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeSource_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("uses the manifest when it yields URLs", func(t *testing.T) {
		t.Parallel()

		primary := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return []string{"https://developers.raycast.com/"}, nil
		}}
		var fallbackCalled bool
		fallback := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			fallbackCalled = true
			return nil, nil
		}}

		source := main.NewCompositeSource(primary, fallback)
		urls, err := source.DiscoverURLs(context.Background(), "https://developers.raycast.com/")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://developers.raycast.com/"}, urls)
		assert.False(t, fallbackCalled)
	})

	t.Run("falls back when the manifest is missing", func(t *testing.T) {
		t.Parallel()

		primary := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return nil, docset.Errorf(docset.ENOTFOUND, "no llms.txt manifest")
		}}
		fallback := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return []string{"https://developers.raycast.com/basics"}, nil
		}}

		source := main.NewCompositeSource(primary, fallback)
		urls, err := source.DiscoverURLs(context.Background(), "https://developers.raycast.com/")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://developers.raycast.com/basics"}, urls)
	})

	t.Run("falls back when the manifest is empty", func(t *testing.T) {
		t.Parallel()

		primary := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return nil, nil
		}}
		fallback := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return []string{"https://developers.raycast.com/basics"}, nil
		}}

		source := main.NewCompositeSource(primary, fallback)
		urls, err := source.DiscoverURLs(context.Background(), "https://developers.raycast.com/")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://developers.raycast.com/basics"}, urls)
	})

	t.Run("propagates other discovery errors", func(t *testing.T) {
		t.Parallel()

		primary := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return nil, docset.Errorf(docset.EUNAVAILABLE, "site unreachable")
		}}
		var fallbackCalled bool
		fallback := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			fallbackCalled = true
			return nil, nil
		}}

		source := main.NewCompositeSource(primary, fallback)
		_, err := source.DiscoverURLs(context.Background(), "https://developers.raycast.com/")
		require.Error(t, err)

		assert.Equal(t, docset.EUNAVAILABLE, docset.ErrorCode(err))
		assert.False(t, fallbackCalled)
	})

	t.Run("without a fallback the primary result is final", func(t *testing.T) {
		t.Parallel()

		primary := &mock.URLSource{DiscoverURLsFn: func(context.Context, string) ([]string, error) {
			return nil, docset.Errorf(docset.ENOTFOUND, "no llms.txt manifest")
		}}

		source := main.NewCompositeSource(primary, nil)
		urls, err := source.DiscoverURLs(context.Background(), "https://developers.raycast.com/")

		assert.Empty(t, urls)
		assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
	})
}
