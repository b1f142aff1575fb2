package clientlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dtnitsch/qgc-crawler/models"
)

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Cliente", "Observação"},
		{"João Silva", "vip"},
		{"  ", "linha vazia"},
		{},
		{" Banco Alfa S.A. "},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "clientes.xlsx")
	require.NoError(t, f.SaveAs(path))

	clients, err := Read(path)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "João Silva", clients[0].Name)
	assert.Equal(t, "joao silva", clients[0].NormalizedName)
	assert.Equal(t, "Banco Alfa S.A.", clients[1].Name)
}

func TestFromLines(t *testing.T) {
	names, err := FromLines(strings.NewReader("\ufeffJoão Silva\r\n\n  Maria Souza  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"João Silva", "Maria Souza"}, names)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n \n"), 0644))
	_, err = Read(empty)
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	broken := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0644))
	_, err = Read(broken)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}
