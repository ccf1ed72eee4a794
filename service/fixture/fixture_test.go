package fixture

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/model/entity"
)

func TestEmbeddedSetIsValid(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	r := s.Check()
	require.NoError(t, r.Err())
	assert.Empty(t, r.Warnings)

	assert.Len(t, s.Products, 16)
	assert.Len(t, s.Categories, 6)
	assert.Len(t, s.Users, 2)
}

func TestEmbeddedSet_KnownRecords(t *testing.T) {
	s := MustLoad()

	p, ok := s.ProductByID(1)
	require.True(t, ok)
	assert.Equal(t, "Honeycrisp Apples", p.Title)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("3.49")))
	assert.True(t, p.OnSale())

	p, ok = s.ProductByID(4)
	require.True(t, ok)
	assert.False(t, p.InStock)
	assert.Equal(t, "Generic", p.BrandName())

	_, ok = s.ProductByID(999)
	assert.False(t, ok)

	assert.Equal(t, "john.doe@example.com", s.Users[0].Email)
	assert.True(t, s.Users[0].Settings.Data().Notifications.PromotionalEmails)
}

func TestLoadFS_RejectsUnknownFields(t *testing.T) {
	fsys := validFS(t)
	fsys[FileCategories] = &fstest.MapFile{Data: []byte(`[{"id": 1, "name": "Fruits", "colour": "red"}]`)}

	_, err := LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileCategories)
}

func TestLoadFS_MissingFile(t *testing.T) {
	fsys := validFS(t)
	delete(fsys, FileWishlist)

	_, err := LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileWishlist)
}

func TestCheck_ReportsFieldAndReferenceErrors(t *testing.T) {
	s := MustLoad()
	s.Products = append(s.Products, entity.Product{ID: 100, Title: "Mystery", Category: "Nowhere", Price: decimal.NewFromInt(1)})
	s.Addresses[0].Address.ZipCode = "ABCDE"
	s.Orders[0].UserID = "42"
	s.ReturnRequests[0].Description = "short"

	r := s.Check()
	require.False(t, r.OK())

	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, `items.json[100]: unknown category "Nowhere"`)
	assert.Contains(t, joined, "addresses.json[ADDR001]: address.zipCode: Valid ZIP code is required")
	assert.Contains(t, joined, `orders.json[ORD001]: unknown user "42"`)
	assert.Contains(t, joined, "return-requests.json[RR001]: description")

	assert.True(t, r.Invalid(FileItems, "100"))
	assert.False(t, r.Invalid(FileItems, "1"))
}

func TestCheck_DuplicateIDsAndUnmaskedCards(t *testing.T) {
	s := MustLoad()
	s.Users = append(s.Users, s.Users[0])
	s.PaymentCards[0].CardNumber = "4111 1111 1111 1111"

	r := s.Check()
	var dup, unmasked bool
	for _, e := range r.Errors {
		if e.File == FileUsers && e.Message == "duplicate id" {
			dup = true
		}
		if e.File == FilePaymentCards && strings.Contains(e.Message, "masked") {
			unmasked = true
		}
	}
	assert.True(t, dup)
	assert.True(t, unmasked)
}

func TestImport_SeedsEveryTable(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, nil)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&entity.Product{}).Count(&n).Error)
	assert.EqualValues(t, 16, n)
	require.NoError(t, db.Model(&entity.Order{}).Count(&n).Error)
	assert.EqualValues(t, 3, n)

	var p entity.Product
	require.NoError(t, db.First(&p, "id = ?", 4).Error)
	assert.False(t, p.InStock)

	var o entity.Order
	require.NoError(t, db.First(&o, "id = ?", "ORD001").Error)
	assert.Len(t, o.Items, 4)
	assert.Equal(t, "1111", o.PaymentInfo.CardNumber)
	assert.Equal(t, "Springfield", o.ShippingInfo.City)
}

func TestImport_SecondRunLeavesExistingRows(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, nil)
	require.NoError(t, err)

	res, err := Import(ctx, db, MustLoad(), ImportOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, res.TotalRows, res.Existing)

	res, err = Import(ctx, db, MustLoad(), ImportOptions{Replace: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, res.TotalRows, res.Created)
}

func TestImport_InvalidSet(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, nil)
	require.NoError(t, err)

	s := MustLoad()
	s.Products = append(s.Products, entity.Product{ID: 200, Title: "Bad", Category: "Fruits"})

	_, err = Import(ctx, db, s, ImportOptions{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items.json[200]")

	res, err := Import(ctx, db, s, ImportOptions{SkipInvalid: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.NotEmpty(t, res.Warnings)

	var n int64
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", 200).Count(&n).Error)
	assert.Zero(t, n)
}

func TestImportProductsCSV(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, nil)
	require.NoError(t, err)

	csv := strings.Join([]string{
		"id,title,category,price,originalPrice,inStock,color",
		"1,Honeycrisp Apples (3 lb),Fruits,8.99,10.49,true,red",
		",Blueberries,Fruits,4.25,,false,blue",
		"5,Broken,Vegetables,abc,,true,",
		",No Category,,1.00,,true,",
	}, "\n")

	res, err := ImportProductsCSV(ctx, db, strings.NewReader(csv), ImportOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, `column "color": unknown, skipping`, res.Warnings[0])

	var p entity.Product
	require.NoError(t, db.First(&p, "id = ?", 1).Error)
	assert.Equal(t, "Honeycrisp Apples (3 lb)", p.Title)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("8.99")))

	require.NoError(t, db.First(&p, "id = ?", 17).Error)
	assert.Equal(t, "Blueberries", p.Title)
	assert.False(t, p.InStock)
}

func TestImportProductsCSV_RequiresColumns(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, nil)
	require.NoError(t, err)

	_, err = ImportProductsCSV(ctx, db, strings.NewReader("id,title\n1,Apples\n"), ImportOptions{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"category"`)
}

func validFS(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, name := range []string{FileCategories, FileBrands, FileItems, FileUsers, FileOrders, FileAddresses, FilePaymentCards, FileWishlist, FileReturnRequests} {
		raw, err := embedded.ReadFile("data/" + name)
		require.NoError(t, err)
		fsys[name] = &fstest.MapFile{Data: raw}
	}
	return fsys
}
