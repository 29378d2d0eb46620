package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/embedding"
)

type fakePainPointRepo struct {
	points  []*entity.PainPoint
	updated []*entity.PainPoint
}

func (r *fakePainPointRepo) Create(_ context.Context, pp *entity.PainPoint) error {
	copied := *pp
	r.points = append(r.points, &copied)
	return nil
}

func (r *fakePainPointRepo) Update(_ context.Context, pp *entity.PainPoint) error {
	copied := *pp
	r.updated = append(r.updated, &copied)
	for i, p := range r.points {
		if p.Id == pp.Id {
			r.points[i] = &copied
		}
	}
	return nil
}

func (r *fakePainPointRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.PainPoint, error) {
	for _, p := range r.points {
		for _, spec := range specs {
			if s, ok := spec.(specification.ByID); ok && p.Id == s.ID {
				return p, nil
			}
		}
	}
	return nil, nil
}

func (r *fakePainPointRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.PainPoint, error) {
	return r.points, nil
}

func (r *fakePainPointRepo) FindNearest(context.Context, []float32, int) ([]*entity.PainPoint, error) {
	return r.points, nil
}

type consumerUow struct {
	fakeUow
	painPoints *fakePainPointRepo
}

func (u *consumerUow) PainPointRepository() contract.PainPointRepository { return u.painPoints }

type consumerUowFactory struct {
	uow *consumerUow
}

func (f *consumerUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeEmbeddingProvider struct {
	values []float32
	err    error
}

func (p *fakeEmbeddingProvider) Generate(string, string) (*embedding.EmbeddingResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: p.values},
	}, nil
}

func embedMessage(t *testing.T, id uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishEmbedPainPointMessage{PainPointId: id})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestProcessMessagePersistsEmbedding(t *testing.T) {
	pp := &entity.PainPoint{Id: uuid.New(), Title: "Slow deploys", Description: "CI takes an hour"}
	repo := &fakePainPointRepo{points: []*entity.PainPoint{pp}}
	cs := &consumerService{
		uowFactory:        &consumerUowFactory{uow: &consumerUow{painPoints: repo}},
		embeddingProvider: &fakeEmbeddingProvider{values: []float32{0.1, 0.2, 0.3}},
		logger:            logger.NewNopLogger(),
	}

	msg := embedMessage(t, pp.Id)
	cs.processMessage(context.Background(), msg)

	require.Len(t, repo.updated, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, repo.updated[0].Embedding)

	select {
	case <-msg.Acked():
	default:
		t.Fatal("expected message to be acked")
	}
}

func TestProcessMessageNacksOnEmbeddingFailure(t *testing.T) {
	pp := &entity.PainPoint{Id: uuid.New(), Title: "Slow deploys"}
	repo := &fakePainPointRepo{points: []*entity.PainPoint{pp}}
	cs := &consumerService{
		uowFactory:        &consumerUowFactory{uow: &consumerUow{painPoints: repo}},
		embeddingProvider: &fakeEmbeddingProvider{err: errors.New("provider down")},
		logger:            logger.NewNopLogger(),
	}

	msg := embedMessage(t, pp.Id)
	cs.processMessage(context.Background(), msg)

	assert.Empty(t, repo.updated)
	select {
	case <-msg.Nacked():
	default:
		t.Fatal("expected message to be nacked")
	}
}

func TestProcessMessageAcksWhenPainPointGone(t *testing.T) {
	cs := &consumerService{
		uowFactory:        &consumerUowFactory{uow: &consumerUow{painPoints: &fakePainPointRepo{}}},
		embeddingProvider: &fakeEmbeddingProvider{values: []float32{0.1}},
		logger:            logger.NewNopLogger(),
	}

	msg := embedMessage(t, uuid.New())
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	default:
		t.Fatal("expected message to be acked")
	}
}
