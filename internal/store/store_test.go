package store_test

import (
	"testing"
	"time"

	"partnerdesk-backend/internal/database"
	"partnerdesk-backend/internal/models"
	"partnerdesk-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open in-memory database")
	require.NoError(t, database.Migrate(db))
	return store.New(db)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedPartner(t *testing.T, st *store.Store, name string) *models.Partner {
	t.Helper()
	p := &models.Partner{
		Name:             name,
		Type:             "wholesale",
		Rating:           3,
		Phone:            "555-0100",
		Email:            name + "@example.com",
		RegistrationDate: date(2023, time.March, 10),
	}
	require.NoError(t, st.CreatePartner(p))
	return p
}

func TestGetPartner_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetPartner(42)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePartner_TouchesOnlyTargetRow(t *testing.T) {
	st := newTestStore(t)

	first := seedPartner(t, st, "Alpha Trade")
	second := seedPartner(t, st, "Beta Retail")

	require.NoError(t, st.UpdatePartner(&models.Partner{
		ID:     first.ID,
		Name:   "Alpha Trade Ltd",
		Type:   "retail",
		Rating: 5,
		Phone:  "555-0199",
	}))

	got, err := st.GetPartner(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Trade Ltd", got.Name)
	assert.Equal(t, "retail", got.Type)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "555-0199", got.Phone)

	// Registration date is excluded from the update set.
	assert.Equal(t, "2023-03-10", got.RegistrationDate.Format("2006-01-02"))

	other, err := st.GetPartner(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta Retail", other.Name)
	assert.Equal(t, 3, other.Rating)
}

func TestSaleTotals_GroupsByPartner(t *testing.T) {
	st := newTestStore(t)

	p1 := seedPartner(t, st, "Alpha Trade")
	p2 := seedPartner(t, st, "Beta Retail")
	seedPartner(t, st, "Gamma Goods") // no sales

	require.NoError(t, st.UpsertProduct(&models.Product{
		ID: 1, Name: "Widget", Price: decimal.NewFromInt(10),
	}))

	sales := []models.Sale{
		{ID: 1, PartnerID: p1.ID, ProductID: 1, Quantity: 7_000, SaleDate: date(2024, time.May, 1)},
		{ID: 2, PartnerID: p1.ID, ProductID: 1, Quantity: 5_000, SaleDate: date(2024, time.June, 1)},
		{ID: 3, PartnerID: p2.ID, ProductID: 1, Quantity: 300, SaleDate: date(2024, time.June, 2)},
	}
	for i := range sales {
		require.NoError(t, st.UpsertSale(&sales[i]))
	}

	totals, err := st.SaleTotals()
	require.NoError(t, err)

	assert.Equal(t, int64(12_000), totals[p1.ID])
	assert.Equal(t, int64(300), totals[p2.ID])
	_, ok := totals[999]
	assert.False(t, ok, "partners without sales have no entry")
}

func TestPartnerSales_JoinedAndOrderedByDate(t *testing.T) {
	st := newTestStore(t)

	p := seedPartner(t, st, "Alpha Trade")
	require.NoError(t, st.UpsertProduct(&models.Product{ID: 1, Name: "Widget", Price: decimal.NewFromInt(10)}))
	require.NoError(t, st.UpsertProduct(&models.Product{ID: 2, Name: "Gadget", Price: decimal.NewFromInt(25)}))

	// Inserted out of date order on purpose.
	require.NoError(t, st.UpsertSale(&models.Sale{ID: 1, PartnerID: p.ID, ProductID: 2, Quantity: 5, SaleDate: date(2024, time.August, 1)}))
	require.NoError(t, st.UpsertSale(&models.Sale{ID: 2, PartnerID: p.ID, ProductID: 1, Quantity: 3, SaleDate: date(2024, time.February, 1)}))

	sales, err := st.PartnerSales(p.ID)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	assert.Equal(t, "Widget", sales[0].ProductName)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.Equal(t, "Gadget", sales[1].ProductName)
	assert.True(t, sales[0].SaleDate.Before(sales[1].SaleDate))
}

func TestUpsertPartner_ReplacesEntireRow(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.UpsertPartner(&models.Partner{
		ID:               7,
		Name:             "Alpha Trade",
		Phone:            "555-0100",
		Email:            "old@example.com",
		Address:          "1 Old Street",
		RegistrationDate: date(2022, time.January, 1),
	}))

	// Same identifier, changed contact details: replace, not merge.
	require.NoError(t, st.UpsertPartner(&models.Partner{
		ID:               7,
		Name:             "Alpha Trade",
		Phone:            "555-0777",
		Email:            "new@example.com",
		RegistrationDate: date(2022, time.January, 1),
	}))

	got, err := st.GetPartner(7)
	require.NoError(t, err)
	assert.Equal(t, "555-0777", got.Phone)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Empty(t, got.Address, "old address must not be retained")

	var count int64
	require.NoError(t, st.DB().Model(&models.Partner{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	st := newTestStore(t)

	err := st.Transaction(func(tx *store.Store) error {
		if err := tx.UpsertPartner(&models.Partner{ID: 1, Name: "Alpha", RegistrationDate: date(2022, time.January, 1)}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = st.GetPartner(1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
