package promotions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRepository struct {
	promos map[string]*Promotion
	usages []*PromoUsage
	err    error
}

func (r *stubRepository) FindActiveByCode(ctx context.Context, code string) (*Promotion, error) {
	if r.err != nil {
		return nil, r.err
	}
	promo, ok := r.promos[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *promo
	return &copied, nil
}

func (r *stubRepository) RecordUsage(ctx context.Context, usage *PromoUsage) error {
	if r.err != nil {
		return r.err
	}
	r.usages = append(r.usages, usage)
	return nil
}

func (r *stubRepository) ListActive(ctx context.Context) ([]Promotion, error) {
	var out []Promotion
	for _, p := range r.promos {
		out = append(out, *p)
	}
	return out, nil
}

type stubProducer struct {
	events []*UsageEvent
	err    error
}

func (p *stubProducer) PublishUsage(ctx context.Context, event *UsageEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *stubProducer) Close() error { return nil }

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func fixedPromo(code string, value, minOrder float64) *Promotion {
	return &Promotion{
		ID:             uuid.New(),
		Code:           code,
		Name:           code,
		DiscountType:   DiscountTypeFixed,
		DiscountValue:  value,
		MinOrderAmount: minOrder,
		StartDate:      testNow.AddDate(0, -1, 0),
		EndDate:        testNow.AddDate(0, 1, 0),
		Active:         true,
	}
}

func percentagePromo(code string, value float64) *Promotion {
	p := fixedPromo(code, value, 0)
	p.DiscountType = DiscountTypePercentage
	return p
}

func newTestService(promos ...*Promotion) (*service, *stubRepository) {
	repo := &stubRepository{promos: map[string]*Promotion{}}
	for _, p := range promos {
		repo.promos[p.Code] = p
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func singleSegmentContext(trainType string, total float64, pax int) PricingContext {
	return PricingContext{
		Segments:       []SegmentContext{{SegmentID: "seg-1", TrainType: trainType}},
		TotalPrice:     total,
		PassengerCount: pax,
		DepartureDate:  "2026-09-10",
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Validate(context.Background(), "NOPE", singleSegmentContext("Eksekutif", 300000, 1))

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Kode promo tidak valid atau sudah tidak aktif", result.Message)
	assert.Zero(t, result.DiscountAmount)
}

func TestValidateFixedDiscount(t *testing.T) {
	svc, _ := newTestService(fixedPromo("DISKON50", 50000, 250000))

	result, err := svc.Validate(context.Background(), "DISKON50", singleSegmentContext("Eksekutif", 300000, 1))

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 50000.0, result.DiscountAmount)
	assert.Equal(t, "Promo DISKON50 berhasil dipakai: potongan Rp50.000", result.Message)
}

func TestValidateMinOrderAmount(t *testing.T) {
	svc, _ := newTestService(fixedPromo("DISKON50", 50000, 250000))

	result, err := svc.Validate(context.Background(), "DISKON50", singleSegmentContext("Eksekutif", 200000, 1))

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Minimal transaksi Rp250.000 untuk memakai promo ini", result.Message)
}

func TestValidateMinPassengers(t *testing.T) {
	family := percentagePromo("FAMILY30", 30)
	family.MinPassengers = 3
	svc, _ := newTestService(family)

	result, err := svc.Validate(context.Background(), "FAMILY30", singleSegmentContext("Eksekutif", 500000, 2))

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Promo FAMILY30 hanya berlaku untuk minimal 3 penumpang", result.Message)

	result, err = svc.Validate(context.Background(), "FAMILY30", singleSegmentContext("Eksekutif", 500000, 3))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 150000.0, result.DiscountAmount)
}

func TestValidateWindowBoundariesInclusive(t *testing.T) {
	promo := fixedPromo("EDGE", 10000, 0)
	promo.StartDate = testNow
	promo.EndDate = testNow
	svc, _ := newTestService(promo)

	result, err := svc.Validate(context.Background(), "EDGE", singleSegmentContext("Eksekutif", 100000, 1))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	svc.now = func() time.Time { return testNow.Add(time.Second) }
	result, err = svc.Validate(context.Background(), "EDGE", singleSegmentContext("Eksekutif", 100000, 1))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Kode promo tidak valid atau sudah tidak aktif", result.Message)
}

func TestValidateTrainTypeAllOrNothing(t *testing.T) {
	argo := percentagePromo("ARGODEAL", 15)
	argo.TrainTypes = []string{"Eksekutif"}
	svc, _ := newTestService(argo)

	mixed := PricingContext{
		Segments: []SegmentContext{
			{SegmentID: "seg-1", TrainType: "Ekonomi"},
			{SegmentID: "seg-2", TrainType: "Eksekutif"},
		},
		TotalPrice:     500000,
		PassengerCount: 2,
	}

	result, err := svc.Validate(context.Background(), "ARGODEAL", mixed)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Promo ARGODEAL hanya berlaku untuk kereta Eksekutif", result.Message)

	allExec := PricingContext{
		Segments: []SegmentContext{
			{SegmentID: "seg-1", TrainType: "Eksekutif"},
			{SegmentID: "seg-2", TrainType: "Eksekutif"},
		},
		TotalPrice:     500000,
		PassengerCount: 2,
	}
	result, err = svc.Validate(context.Background(), "ARGODEAL", allExec)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 75000.0, result.DiscountAmount)
}

func TestValidatePercentageCap(t *testing.T) {
	capped := percentagePromo("CAPPED", 30)
	maxDiscount := 100000.0
	capped.MaxDiscount = &maxDiscount
	uncapped := percentagePromo("UNCAPPED", 30)
	svc, _ := newTestService(capped, uncapped)

	pctx := singleSegmentContext("Eksekutif", 1000000, 4)

	result, err := svc.Validate(context.Background(), "CAPPED", pctx)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, result.DiscountAmount)

	result, err = svc.Validate(context.Background(), "UNCAPPED", pctx)
	require.NoError(t, err)
	assert.Equal(t, 300000.0, result.DiscountAmount, "nil cap means uncapped")
}

func TestValidateDiscountNeverExceedsSubtotal(t *testing.T) {
	svc, _ := newTestService(fixedPromo("BIG", 500000, 0))

	result, err := svc.Validate(context.Background(), "BIG", singleSegmentContext("Eksekutif", 300000, 1))

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 300000.0, result.DiscountAmount)
}

func TestValidateIsIdempotent(t *testing.T) {
	svc, repo := newTestService(fixedPromo("DISKON50", 50000, 250000))
	pctx := singleSegmentContext("Eksekutif", 300000, 1)

	first, err := svc.Validate(context.Background(), "DISKON50", pctx)
	require.NoError(t, err)
	second, err := svc.Validate(context.Background(), "DISKON50", pctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, repo.usages, "validation must not record usage")
}

func TestRecordUsagePersistsAndPublishes(t *testing.T) {
	promo := fixedPromo("DISKON50", 50000, 250000)
	svc, repo := newTestService(promo)
	producer := &stubProducer{}
	svc.SetUsageProducer(producer)

	err := svc.RecordUsage(context.Background(), promo, "TRG-20260830-ABC123", 50000)

	require.NoError(t, err)
	require.Len(t, repo.usages, 1)
	assert.Equal(t, promo.ID, repo.usages[0].PromotionID)
	assert.Equal(t, "TRG-20260830-ABC123", repo.usages[0].BookingRef)
	require.Len(t, producer.events, 1)
	assert.Equal(t, "DISKON50", producer.events[0].Code)
}

func TestRecordUsageToleratesPublishFailure(t *testing.T) {
	promo := fixedPromo("DISKON50", 50000, 250000)
	svc, repo := newTestService(promo)
	svc.SetUsageProducer(&stubProducer{err: assert.AnError})

	err := svc.RecordUsage(context.Background(), promo, "TRG-20260830-ABC123", 50000)

	require.NoError(t, err, "a failed event publish must not fail the redemption")
	assert.Len(t, repo.usages, 1)
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp0", formatRupiah(0))
	assert.Equal(t, "Rp500", formatRupiah(500))
	assert.Equal(t, "Rp50.000", formatRupiah(50000))
	assert.Equal(t, "Rp250.000", formatRupiah(250000))
	assert.Equal(t, "Rp1.250.000", formatRupiah(1250000))
}
