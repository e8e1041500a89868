package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/application/usecase"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/infrastructure/memory"
)

func TestNormalizeTags(t *testing.T) {
	got := usecase.NormalizeTags([]string{" VIP", "vip", "", "Wholesale ", "  "})
	assert.Equal(t, []string{"vip", "wholesale"}, got)
	assert.Equal(t, []string{}, usecase.NormalizeTags(nil))
}

func TestCustomer_CreateRejectsDuplicatesAndMissingContact(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.New().Customers())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Nok", Email: "Nok@Example.com", Tags: []string{"VIP"}})
	require.NoError(t, err)
	assert.Equal(t, "nok@example.com", created.Email)
	assert.Equal(t, []string{"vip"}, created.Tags)

	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "Otra", Email: "NOK@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "Sin contacto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Phone: "0800000000"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomer_UpdateAndFilterByTag(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.New().Customers())
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A", Phone: "0811111111"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "B", Phone: "0822222222"})
	require.NoError(t, err)

	address := "  Chiang Mai "
	updated, err := uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{Address: &address, Tags: []string{"Repeat"}})
	require.NoError(t, err)
	assert.Equal(t, "Chiang Mai", updated.Address)
	assert.Equal(t, "A", updated.Name)

	list, err := uc.List(ctx, "", "REPEAT", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	empty := " "
	_, err = uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
