package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

func sampleDocument() regulation.Document {
	return regulation.DefaultDocument(time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local))
}

func TestRegulationService_Template(t *testing.T) {
	svc := NewRegulationService(newMockRegulationRepo(), &mockTxManager{}, &mockLogger{})
	svc.(*regulationServiceImpl).now = func() time.Time { return time.Date(2024, 4, 1, 15, 30, 0, 0, time.Local) }

	doc := svc.Template()
	assert.Len(t, doc.Positions, 4)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), doc.Company.ImplementationDate)
	assert.NoError(t, regulation.Validate(doc))
}

func TestRegulationService_Preview(t *testing.T) {
	svc := NewRegulationService(newMockRegulationRepo(), &mockTxManager{}, &mockLogger{})
	doc := sampleDocument()

	assert.Equal(t, regulation.GenerateText(doc), svc.Preview(doc))
}

func TestRegulationService_Create(t *testing.T) {
	t.Run("stores generated text", func(t *testing.T) {
		repo := newMockRegulationRepo()
		tx := &mockTxManager{}
		svc := NewRegulationService(repo, tx, &mockLogger{})

		reg, err := svc.Create(context.Background(), 1, sampleDocument())
		require.NoError(t, err)
		assert.NotZero(t, reg.ID)
		assert.Equal(t, "株式会社サンプル 出張旅費規程", reg.RegulationName)
		assert.Equal(t, regulation.GenerateText(sampleDocument()), reg.RegulationText)
		assert.Len(t, reg.Positions, 4)
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("invalid document", func(t *testing.T) {
		repo := newMockRegulationRepo()
		svc := NewRegulationService(repo, &mockTxManager{}, &mockLogger{})

		doc := sampleDocument()
		doc.Positions = nil
		_, err := svc.Create(context.Background(), 1, doc)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, repo.regs)
	})
}

func TestRegulationService_Update(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := entity.NewRegulation(1, sampleDocument())
	existing.ID = 5
	existing.CreatedAt = created

	repo := newMockRegulationRepo(existing)
	svc := NewRegulationService(repo, &mockTxManager{}, &mockLogger{})

	doc := sampleDocument()
	doc.Company.Revision = 2
	doc.Positions = doc.Positions[:1]
	doc.Positions[0].DomesticDailyAllowance = decimal.NewFromInt(9000)

	reg, err := svc.Update(context.Background(), 1, 5, doc)
	require.NoError(t, err)
	assert.Equal(t, int64(5), reg.ID)
	assert.Equal(t, created, reg.CreatedAt)
	assert.Equal(t, 2, reg.Revision)
	assert.Len(t, repo.regs[5].Positions, 1)
	assert.Contains(t, reg.RegulationText, "9000")

	_, err = svc.Update(context.Background(), 2, 5, doc)
	assert.True(t, domain.IsNotFound(err))
}

func TestRegulationService_OwnerScope(t *testing.T) {
	reg := entity.NewRegulation(1, sampleDocument())
	reg.ID = 5
	repo := newMockRegulationRepo(reg)
	svc := NewRegulationService(repo, &mockTxManager{}, &mockLogger{})

	_, err := svc.Get(context.Background(), 1, 5)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, 5)
	assert.True(t, domain.IsNotFound(err))

	list, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, domain.IsNotFound(svc.Delete(context.Background(), 2, 5)))
	assert.Contains(t, repo.regs, int64(5))

	require.NoError(t, svc.Delete(context.Background(), 1, 5))
	assert.NotContains(t, repo.regs, int64(5))
}
