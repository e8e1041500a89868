package ads_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/sakura-shop/backoffice/internal/application/ads"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

// recordingRepo guarda lo que recibe Upsert.
type recordingRepo struct {
	rows  []*entity.AdSpend
	calls int
	err   error
}

func (r *recordingRepo) Upsert(_ context.Context, rows []*entity.AdSpend) error {
	r.calls++
	r.rows = append(r.rows, rows...)
	return r.err
}

func runImport(t *testing.T, repo *recordingRepo, csv string, opts ads.ImportOptions) error {
	t.Helper()
	uc := ads.NewImportUseCase(repo, logger.Nop())
	_, err := uc.Import(context.Background(), strings.NewReader(csv), opts)
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos felices
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_ParsesRowsAndReportsErrors(t *testing.T) {
	repo := &recordingRepo{}
	uc := ads.NewImportUseCase(repo, logger.Nop())

	csv := "\ufeffDate,Platform,Campaign,Spend,Impressions,Clicks\n" +
		"2026-10-01,Facebook,Otoño,\"฿1,250.50\",\"12,000\",340\n" +
		"01/10/2569,tiktok,Launch,300,,\n" +
		",,,,,\n" +
		"2026-10-02,facebook,Otoño,abc,1,1\n" +
		"2026-10-99,facebook,Otoño,10,1,1\n" +
		"2026-10-01,FACEBOOK,Otoño,999.999,1,1\n"

	res, err := uc.Import(context.Background(), strings.NewReader(csv), ads.ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped, "fila vacía + clave repetida")
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 5, res.Errors[0].Row)
	assert.Equal(t, 6, res.Errors[1].Row)

	require.Equal(t, 1, repo.calls)
	require.Len(t, repo.rows, 2)
	fb := repo.rows[0]
	assert.Equal(t, "facebook", fb.Platform)
	assert.Equal(t, "Otoño", fb.Campaign)
	assert.Equal(t, "1000.00", fb.Spend.StringFixed(2), "la última fila con la misma clave gana")
	assert.Equal(t, "2026-10-01", fb.Date.Format("2006-01-02"))

	tt := repo.rows[1]
	assert.Equal(t, "tiktok", tt.Platform)
	assert.Equal(t, "2026-10-01", tt.Date.Format("2006-01-02"))
	assert.Zero(t, tt.Impressions)
}

func TestImport_Windows874(t *testing.T) {
	utf8 := "date,platform,campaign,spend\n2026-10-05,line,ลดราคา,500\n"
	encoded, err := charmap.Windows874.NewEncoder().String(utf8)
	require.NoError(t, err)

	repo := &recordingRepo{}
	uc := ads.NewImportUseCase(repo, logger.Nop())
	res, err := uc.Import(context.Background(), bytes.NewReader([]byte(encoded)), ads.ImportOptions{Encoding: "TIS-620"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "ลดราคา", repo.rows[0].Campaign)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de archivo
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_FileLevelErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		opts ads.ImportOptions
	}{
		{"vacío", "", ads.ImportOptions{}},
		{"falta columna spend", "date,platform,campaign\n2026-10-01,fb,x\n", ads.ImportOptions{}},
		{"codificación desconocida", "date,platform,campaign,spend\n", ads.ImportOptions{Encoding: "latin-9"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &recordingRepo{}
			err := runImport(t, repo, tc.csv, tc.opts)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, repo.calls)
		})
	}
}

func TestImport_RepositoryFailureAborts(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db caída")}
	err := runImport(t, repo, "date,platform,campaign,spend\n2026-10-01,fb,x,1\n", ads.ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db caída")
}
