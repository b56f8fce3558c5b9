package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ProductStore/StatisticsStore mirroring the
// semantics of the SQL store: unconditional writes, no-op deletes of missing
// ids, ids never reused.
type fakeStore struct {
	nextID   int64
	products map[int64]models.Product
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, products: make(map[int64]models.Product)}
}

func (f *fakeStore) InsertProduct(_ context.Context, name string, price float64, status string, description *string) (int64, error) {
	id := f.nextID
	f.nextID++
	f.products[id] = models.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Status:      status,
		Description: description,
		CreatedAt:   time.Now(),
	}
	return id, nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, id int64, name string, price float64, status string, description *string) error {
	if p, ok := f.products[id]; ok {
		p.Name, p.Price, p.Status, p.Description = name, price, status, description
		f.products[id] = p
	}
	return nil
}

func (f *fakeStore) UpdateProductStatus(_ context.Context, id int64, status string) error {
	if p, ok := f.products[id]; ok {
		p.Status = status
		f.products[id] = p
	}
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) (int64, error) {
	if _, ok := f.products[id]; !ok {
		return 0, nil
	}
	delete(f.products, id)
	return 1, nil
}

func (f *fakeStore) StatusStatistics(_ context.Context) ([]models.StatusStatistics, error) {
	byStatus := make(map[string]*models.StatusStatistics)
	for _, p := range f.products {
		st, ok := byStatus[p.Status]
		if !ok {
			st = &models.StatusStatistics{Status: p.Status}
			byStatus[p.Status] = st
		}
		st.Count++
		st.TotalValue += p.Price
	}

	out := make([]models.StatusStatistics, 0, len(byStatus))
	for _, st := range byStatus {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (f *fakeStore) TotalStatistics(_ context.Context) (models.Totals, error) {
	var totals models.Totals
	for _, p := range f.products {
		totals.TotalProducts++
		totals.TotalValue += p.Price
	}
	return totals, nil
}

// capturingPublisher records every published event in order
type capturingPublisher struct {
	created       []models.ProductCreatedEvent
	updated       []models.ProductUpdatedEvent
	statusUpdated []models.ProductStatusUpdatedEvent
	deleted       []models.ProductDeletedEvent
}

func (c *capturingPublisher) PublishProductCreated(e models.ProductCreatedEvent) error {
	c.created = append(c.created, e)
	return nil
}

func (c *capturingPublisher) PublishProductUpdated(e models.ProductUpdatedEvent) error {
	c.updated = append(c.updated, e)
	return nil
}

func (c *capturingPublisher) PublishProductStatusUpdated(e models.ProductStatusUpdatedEvent) error {
	c.statusUpdated = append(c.statusUpdated, e)
	return nil
}

func (c *capturingPublisher) PublishProductDeleted(e models.ProductDeletedEvent) error {
	c.deleted = append(c.deleted, e)
	return nil
}

func (c *capturingPublisher) total() int {
	return len(c.created) + len(c.updated) + len(c.statusUpdated) + len(c.deleted)
}

func newTestService() (*ProductService, *fakeStore, *capturingPublisher) {
	fs := newFakeStore()
	pub := &capturingPublisher{}
	return NewProductService(fs, pub), fs, pub
}

func strPtr(s string) *string { return &s }

func TestCreateRoundTrip(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	product, err := svc.Create(ctx, &CreateProductRequest{
		Name:        "Widget",
		Price:       9.99,
		Status:      models.StatusNew,
		Description: strPtr("a widget"),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 9.99, product.Price)
	assert.Equal(t, models.StatusNew, product.Status)
	require.NotNil(t, product.Description)
	assert.Equal(t, "a widget", *product.Description)

	got, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product, got)

	require.Len(t, pub.created, 1)
	assert.Equal(t, *product, pub.created[0].Product)
	assert.Equal(t, 1, pub.total())
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc, _, _ := newTestService()

	product, err := svc.Create(context.Background(), &CreateProductRequest{Name: "Gadget", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, product.Status)
}

func TestUpdateConsistency(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateProductRequest{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &UpdateProductRequest{
		Name:   "Widget v2",
		Price:  12.50,
		Status: models.StatusSold,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.Equal(t, 12.50, updated.Price)
	assert.Equal(t, models.StatusSold, updated.Status)
	assert.Nil(t, updated.Description) // full overwrite, not a merge

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.Len(t, pub.updated, 1)
	assert.Equal(t, *updated, pub.updated[0].Product)
}

func TestUpdateMissingProductReturnsNotFound(t *testing.T) {
	svc, _, pub := newTestService()

	_, err := svc.Update(context.Background(), 77, &UpdateProductRequest{Name: "X", Price: 1, Status: models.StatusNew})
	assert.ErrorIs(t, err, store.ErrProductNotFound)
	assert.Equal(t, 0, pub.total())
}

func TestUpdateStatus(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateProductRequest{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, created.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.Equal(t, created.Name, updated.Name)

	require.Len(t, pub.statusUpdated, 1)
	assert.Equal(t, *updated, pub.statusUpdated[0].Product)
}

func TestUpdateStatusMissingProductReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), 123, models.StatusSold)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestDeletePublishesExactlyOneEvent(t *testing.T) {
	svc, fs, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateProductRequest{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, fs.products)

	require.Len(t, pub.deleted, 1)
	assert.Equal(t, created.ID, pub.deleted[0].ID)
}

func TestDeleteMissingProductStillSucceedsAndBroadcasts(t *testing.T) {
	svc, _, pub := newTestService()

	// Idempotent delete: the id does not exist, yet the call succeeds and
	// the deletion event still fires.
	require.NoError(t, svc.Delete(context.Background(), 404))

	require.Len(t, pub.deleted, 1)
	assert.EqualValues(t, 404, pub.deleted[0].ID)
}

func TestEveryMutationPublishesExactlyOnce(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, &CreateProductRequest{Name: "A", Price: 1})
	require.NoError(t, err)
	_, err = svc.Update(ctx, p.ID, &UpdateProductRequest{Name: "B", Price: 2, Status: models.StatusSold})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, p.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	assert.Equal(t, 4, pub.total())
}

func TestGetStatistics(t *testing.T) {
	svc, fs, _ := newTestService()
	stats := NewStatsService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateProductRequest{Name: "A", Price: 10})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateProductRequest{Name: "B", Price: 2.5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateProductRequest{Name: "C", Price: 7, Status: models.StatusSold})
	require.NoError(t, err)

	snapshot, err := stats.GetStatistics(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, snapshot.Totals.TotalProducts)
	assert.Equal(t, 19.5, snapshot.Totals.TotalValue)

	require.Len(t, snapshot.ByStatus, 2)
	assert.Equal(t, models.StatusNew, snapshot.ByStatus[0].Status)
	assert.EqualValues(t, 2, snapshot.ByStatus[0].Count)
	assert.Equal(t, 12.5, snapshot.ByStatus[0].TotalValue)
	assert.Equal(t, models.StatusSold, snapshot.ByStatus[1].Status)
	assert.EqualValues(t, 1, snapshot.ByStatus[1].Count)
	assert.Equal(t, 7.0, snapshot.ByStatus[1].TotalValue)
}

func TestGetStatisticsEmptyTable(t *testing.T) {
	_, fs, _ := newTestService()
	stats := NewStatsService(fs)

	snapshot, err := stats.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, snapshot.Totals.TotalProducts)
	assert.Equal(t, 0.0, snapshot.Totals.TotalValue)
	assert.Empty(t, snapshot.ByStatus)
}
