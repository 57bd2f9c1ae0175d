package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
)

func TestBuildListingQuery_EmptyFilterMatchesEverything(t *testing.T) {
	query := buildListingQuery(domain.Filter{})
	assert.Empty(t, query)
}

func TestBuildListingQuery_PriceBoundsAreInclusive(t *testing.T) {
	cases := []struct {
		name     string
		filter   domain.Filter
		wantGte  float64
		wantLte  float64
		hasPrice bool
	}{
		{"both bounds", domain.Filter{MinPrice: 1000, MaxPrice: 5000}, 1000, 5000, true},
		{"min only", domain.Filter{MinPrice: 2500}, 2500, 0, true},
		{"max only", domain.Filter{MaxPrice: 4000}, 0, 4000, true},
		{"no bounds", domain.Filter{}, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query := buildListingQuery(tc.filter)
			price, ok := query["price"].(bson.M)
			if !tc.hasPrice {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			if tc.wantGte > 0 {
				assert.Equal(t, tc.wantGte, price["$gte"])
			} else {
				assert.NotContains(t, price, "$gte")
			}
			if tc.wantLte > 0 {
				assert.Equal(t, tc.wantLte, price["$lte"])
			} else {
				assert.NotContains(t, price, "$lte")
			}
		})
	}
}

func TestBuildListingQuery_SubstringMatchesAreCaseInsensitive(t *testing.T) {
	query := buildListingQuery(domain.Filter{Breed: "labrador", Location: "casablanca"})

	breed, ok := query["breed"].(bson.M)["$regex"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "labrador", breed.Pattern)
	assert.Equal(t, "i", breed.Options)

	location, ok := query["location"].(bson.M)["$regex"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "casablanca", location.Pattern)
	assert.Equal(t, "i", location.Options)
}

func TestBuildListingQuery_EscapesRegexMetacharacters(t *testing.T) {
	query := buildListingQuery(domain.Filter{Breed: "berger (atlas)"})

	breed := query["breed"].(bson.M)["$regex"].(primitive.Regex)
	assert.Equal(t, `berger \(atlas\)`, breed.Pattern)
}

func TestBuildListingQuery_StatusAndSellerAreExactMatches(t *testing.T) {
	query := buildListingQuery(domain.Filter{Status: domain.StatusApproved, SellerID: "seller-1"})

	assert.Equal(t, "approved", query["status"])
	assert.Equal(t, "seller-1", query["seller_id"])
}

func TestBuildListingFindOptions_SortsNewestFirst(t *testing.T) {
	opts := buildListingFindOptions(domain.Filter{})

	sort, ok := opts.Sort.(bson.D)
	require.True(t, ok)
	require.Len(t, sort, 1)
	assert.Equal(t, "created_at", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Skip)
}

func TestBuildListingFindOptions_Paging(t *testing.T) {
	opts := buildListingFindOptions(domain.Filter{Page: 3, Limit: 20})

	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(40), *opts.Skip)
}

func TestBuildListingFindOptions_FirstPageSkipsNothing(t *testing.T) {
	opts := buildListingFindOptions(domain.Filter{Page: 1, Limit: 20})

	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Nil(t, opts.Skip)
}
