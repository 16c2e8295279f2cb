package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStoreSaveAndOpen(t *testing.T) {
	store, err := NewBlobStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	url, err := store.Save("pdfs/1700000000000_syllabus.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/pdfs/1700000000000_syllabus.pdf", url)

	file, err := store.Open("pdfs/1700000000000_syllabus.pdf")
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestBlobStoreDeleteByURL(t *testing.T) {
	store, err := NewBlobStore(t.TempDir(), "")
	require.NoError(t, err)

	url, err := store.Save("powerpoints/1_deck.pptx", strings.NewReader("slides"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByURL(url))
	_, err = store.Open("powerpoints/1_deck.pptx")
	assert.Error(t, err)
}

func TestBlobStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewBlobStore(t.TempDir(), "")
	require.NoError(t, err)
	assert.NoError(t, store.Delete("pdfs/never_existed.pdf"))
}

func TestBlobStoreRejectsTraversal(t *testing.T) {
	store, err := NewBlobStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Save("../outside.txt", strings.NewReader("nope"))
	assert.Error(t, err)

	_, err = store.PathFromURL("http://example.com/elsewhere/file.pdf")
	assert.Error(t, err)
}
