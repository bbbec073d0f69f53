package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"courseta/models"
)

type fakeMaterialRepo struct {
	createErr error
	created   *models.CourseMaterial
	chunks    []models.ParsedChunk
}

func (f *fakeMaterialRepo) CreateMaterial(material *models.CourseMaterial) error {
	if f.createErr != nil {
		return f.createErr
	}
	material.ID = "mat-1"
	f.created = material
	return nil
}

func (f *fakeMaterialRepo) GetMaterialByID(id string) (*models.CourseMaterial, error) {
	return nil, fmt.Errorf("material with ID %s not found", id)
}

func (f *fakeMaterialRepo) GetMaterialsByCourse(courseID string) ([]*models.CourseMaterial, error) {
	return nil, nil
}

func (f *fakeMaterialRepo) UpdateExtractedText(id, extractedText string) error { return nil }

func (f *fakeMaterialRepo) UpdateSummary(id, summary string) error { return nil }

func (f *fakeMaterialRepo) DeleteMaterial(id string) error { return nil }

func (f *fakeMaterialRepo) ReplaceChunks(materialID, courseID string, chunks []models.ParsedChunk) error {
	f.chunks = chunks
	return nil
}

func (f *fakeMaterialRepo) GetChunksByMaterial(materialID string) ([]*models.MaterialChunk, error) {
	return nil, nil
}

func (f *fakeMaterialRepo) Close() error { return nil }

type fakeFileStore struct {
	files map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[string][]byte{}}
}

func (f *fakeFileStore) Save(storagePath string, data []byte) error {
	f.files[storagePath] = data
	return nil
}

func (f *fakeFileStore) Load(storagePath string) ([]byte, error) {
	data, ok := f.files[storagePath]
	if !ok {
		return nil, fmt.Errorf("file %s not found", storagePath)
	}
	return data, nil
}

func (f *fakeFileStore) Delete(storagePath string) error {
	delete(f.files, storagePath)
	return nil
}

func TestUploadMaterialExtractionFailureKeepsMaterial(t *testing.T) {
	repo := &fakeMaterialRepo{}
	store := newFakeFileStore()
	service := NewMaterialService(repo, store, nil, "test-key")

	// Not a valid zip, so docx extraction always fails.
	material, err := service.UploadMaterial("course-1", "notes.docx", "notes", []byte("not a zip archive"))
	if err != nil {
		t.Fatalf("upload should survive extraction failure, got error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("material row was not created")
	}
	if material.ExtractedText != "" {
		t.Errorf("expected empty extracted text, got %q", material.ExtractedText)
	}
	if len(repo.chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(repo.chunks))
	}

	storagePath := filepath.Join("course-1", "notes.docx")
	if _, ok := store.files[storagePath]; !ok {
		t.Error("stored file should be kept for later re-extraction")
	}
}

func TestUploadMaterialCreateFailureRemovesStoredFile(t *testing.T) {
	repo := &fakeMaterialRepo{createErr: fmt.Errorf("insert failed")}
	store := newFakeFileStore()
	service := NewMaterialService(repo, store, nil, "test-key")

	_, err := service.UploadMaterial("course-1", "notes.docx", "notes", []byte("not a zip archive"))
	if err == nil {
		t.Fatal("expected an error when the material row cannot be created")
	}

	storagePath := filepath.Join("course-1", "notes.docx")
	if _, ok := store.files[storagePath]; ok {
		t.Error("stored file should be removed when the material row cannot be created")
	}
}

func TestUploadMaterialRejectsUnsupportedType(t *testing.T) {
	repo := &fakeMaterialRepo{}
	store := newFakeFileStore()
	service := NewMaterialService(repo, store, nil, "test-key")

	_, err := service.UploadMaterial("course-1", "archive.zip", "notes", []byte("data"))
	if err == nil {
		t.Fatal("expected an error for an unsupported file type")
	}
	if repo.created != nil {
		t.Error("no material row should be created for an unsupported type")
	}
	if len(store.files) != 0 {
		t.Error("no file should be stored for an unsupported type")
	}
}
