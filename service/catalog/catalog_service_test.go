package catalog

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	catalogRepo "grocery.GO/model/repository/catalog"
	"grocery.GO/service/fixture"
)

func productIDs(products []entity.Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func ptr(f float64) *float64 { return &f }

func TestApply(t *testing.T) {
	products := fixture.MustLoad().Products

	tests := []struct {
		name   string
		filter Filter
		want   []uint
	}{
		{"newest by default", Filter{Category: "fruits"}, []uint{4, 3, 2, 1}},
		{"in stock", Filter{Category: "Fruits", Availability: InStock}, []uint{3, 2, 1}},
		{"out of stock", Filter{Availability: OutOfStock}, []uint{10, 4}},
		{"price range", Filter{MinPrice: ptr(2), MaxPrice: ptr(3), Sort: SortPriceLow}, []uint{5, 6}},
		{"generic brand", Filter{Brands: []string{"generic"}}, []uint{16, 7, 4}},
		{"brands", Filter{Brands: []string{"Orchard Fresh", "Crunch Co"}, Sort: SortPriceHigh}, []uint{3, 1, 15}},
		{"rating floor", Filter{Ratings: []int{3}}, []uint{7, 4}},
		{"query", Filter{Query: "  FRESH "}, []uint{5, 3, 1}},
		{"query and category", Filter{Query: "fresh", Category: "Vegetables"}, []uint{5}},
		{"no match", Filter{Query: "caviar"}, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, productIDs(Apply(products, tt.filter)))
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(map[string][]string{
		"q":            {"fresh"},
		"category":     {"Fruits"},
		"minPrice":     {"1.5"},
		"brands":       {"Orchard Fresh,Crunch Co", "Generic"},
		"ratings":      {"4", "5"},
		"availability": {"in-stock"},
		"sort":         {"price-low"},
		"maxPrice":     {""},
		"page":         {"2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", f.Query)
	assert.Equal(t, "Fruits", f.Category)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 1.5, *f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Equal(t, []string{"Orchard Fresh", "Crunch Co", "Generic"}, f.Brands)
	assert.Equal(t, []int{4, 5}, f.Ratings)
	assert.Equal(t, InStock, f.Availability)
	assert.Equal(t, SortPriceLow, f.Sort)

	_, err = ParseFilter(map[string][]string{"minPrice": {"cheap"}})
	assert.Error(t, err)
}

func TestApply_SortRating(t *testing.T) {
	got := Apply(fixture.MustLoad().Products, Filter{Sort: SortRating})
	require.Len(t, got, 16)
	assert.Equal(t, []uint{11, 8}, productIDs(got[:2]))
}

func TestBrandNamesAndPriceRange(t *testing.T) {
	products := fixture.MustLoad().Products
	assert.Equal(t, []string{
		"Crunch Co", "Generic", "Golden Crust", "Green Valley", "Meadow Farms",
		"Orchard Fresh", "Sunrise Beverages", "Tropicana Groves",
	}, BrandNames(products))

	r := PriceRangeOf(products)
	assert.True(t, r.Min.Equal(decimal.RequireFromString("1.89")))
	assert.True(t, r.Max.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, PriceRangeOf(nil).Max.IsZero())
}

func newService(t *testing.T, index Index) *Service {
	t.Helper()
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	return NewService(catalogRepo.NewProductRepository(db, nil), catalogRepo.NewCategoryRepository(db), index, nil)
}

func TestService_ListAndLookups(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()

	got, err := s.List(ctx, Filter{Query: "green"})
	require.NoError(t, err)
	assert.Equal(t, []uint{6, 5}, productIDs(got))

	p, err := s.ByID(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, "Colombian Coffee", p.Title)
	_, err = s.ByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	brands, err := s.Brands(ctx)
	require.NoError(t, err)
	assert.Contains(t, brands, "Generic")

	r, err := s.PriceRange(ctx)
	require.NoError(t, err)
	assert.True(t, r.Min.Equal(decimal.RequireFromString("1.89")))
}

func TestService_CreateUpdateDelete(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()

	p, err := s.Create(ctx, ProductInput{
		Title: " Blueberries ", Category: "fruits", Price: decimal.RequireFromString("4.49"),
		OriginalPrice: decimal.RequireFromString("3.00"), Image: "🫐", InStock: true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(17), p.ID)
	assert.Equal(t, "Blueberries", p.Title)
	assert.Equal(t, "Fruits", p.Category)
	assert.True(t, p.OriginalPrice.Equal(p.Price), "original price raised to price")

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fruits", cats[0].Name)
	assert.Equal(t, 5, cats[0].ItemCount)

	listed, err := s.List(ctx, Filter{Query: "blue"})
	require.NoError(t, err)
	assert.Equal(t, []uint{17}, productIDs(listed))

	_, err = s.Create(ctx, ProductInput{Title: "Caviar", Category: "Seafood", Price: decimal.NewFromInt(99)})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = s.Create(ctx, ProductInput{Category: "Fruits"})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title is required", verr.Map()["title"])
	assert.Equal(t, "Price must be greater than 0", verr.Map()["price"])

	updated, err := s.Update(ctx, 4, ProductInput{Title: "Avocados", Category: "Fruits", Price: decimal.RequireFromString("5.49"), InStock: true})
	require.NoError(t, err)
	assert.True(t, updated.InStock)
	stored, err := s.ByID(ctx, 4)
	require.NoError(t, err)
	assert.True(t, stored.InStock)

	require.NoError(t, s.Delete(ctx, 4))
	_, err = s.ByID(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 4), ErrNotFound)
	_, err = s.Update(ctx, 4, ProductInput{Title: "x", Category: "Fruits", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ReindexWithoutIndex(t *testing.T) {
	s := newService(t, nil)
	assert.False(t, s.HasIndex())
	_, err := s.Reindex(context.Background())
	assert.ErrorIs(t, err, ErrNoIndex)
}

type fakeIndex struct {
	ids     []uint
	err     error
	put     []uint
	removed []uint
	loaded  int
}

func (f *fakeIndex) Reindex(_ context.Context, products []entity.Product) error {
	f.loaded = len(products)
	return f.err
}

func (f *fakeIndex) Put(_ context.Context, p entity.Product) error {
	f.put = append(f.put, p.ID)
	return f.err
}

func (f *fakeIndex) Remove(_ context.Context, id uint) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) Search(context.Context, string) ([]uint, error) { return f.ids, f.err }

func TestService_ListUsesIndex(t *testing.T) {
	idx := &fakeIndex{ids: []uint{14, 13, 99}}
	s := newService(t, idx)
	ctx := context.Background()

	got, err := s.List(ctx, Filter{Query: "cofee", Sort: SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []uint{13, 14}, productIDs(got))

	got, err = s.List(ctx, Filter{Query: "cofee", MaxPrice: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, []uint{13}, productIDs(got))

	n, err := s.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, 16, idx.loaded)

	p, err := s.Create(ctx, ProductInput{Title: "Oat Milk", Category: "Dairy", Price: decimal.RequireFromString("3.49")})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, p.ID))
	assert.Equal(t, []uint{p.ID}, idx.put)
	assert.Equal(t, []uint{p.ID}, idx.removed)
}

func TestService_ListFallsBackWhenIndexFails(t *testing.T) {
	s := newService(t, &fakeIndex{err: errors.New("connection refused")})
	got, err := s.List(context.Background(), Filter{Query: "coffee"})
	require.NoError(t, err)
	assert.Equal(t, []uint{14}, productIDs(got))
}

// fakeElastic answers the handful of endpoints ElasticIndex calls.
type fakeElastic struct {
	mu       sync.Mutex
	requests []string
	bulkDocs int
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":14}},{"_source":{"id":8}}]}}`)
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		lines := 0
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				lines++
			}
		}
		f.mu.Lock()
		f.bulkDocs += lines / 2
		f.mu.Unlock()
		io.WriteString(w, `{"took":1,"errors":false,"items":[]}`)
	case strings.Contains(r.URL.Path, "/_doc/"):
		if r.Method == http.MethodPut || r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		io.WriteString(w, `{"result":"ok"}`)
	default:
		io.WriteString(w, `{"acknowledged":true}`)
	}
}

func TestElasticIndex(t *testing.T) {
	fake := &fakeElastic{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	idx, err := NewElasticIndex(srv.URL, "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultIndexName, idx.Name())

	ctx := context.Background()
	products := fixture.MustLoad().Products
	require.NoError(t, idx.Reindex(ctx, products))
	assert.Equal(t, len(products), fake.bulkDocs)

	ids, err := idx.Search(ctx, "coffee")
	require.NoError(t, err)
	assert.Equal(t, []uint{14, 8}, ids)

	require.NoError(t, idx.Put(ctx, products[0]))
	require.NoError(t, idx.Remove(ctx, 1))

	assert.Equal(t, []string{
		"DELETE /" + DefaultIndexName,
		"PUT /" + DefaultIndexName,
		"POST /" + DefaultIndexName + "/_bulk",
		"POST /" + DefaultIndexName + "/_search",
		"PUT /" + DefaultIndexName + "/_doc/1",
		"DELETE /" + DefaultIndexName + "/_doc/1",
	}, fake.requests)

	_, err = NewElasticIndex("", "", nil)
	assert.Error(t, err)
}
