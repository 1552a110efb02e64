package onboarding

import (
	"context"

	"github.com/medkey/medkey/internal/platform/docstore"
)

type docRepository struct {
	docs *docstore.Documents
}

// NewDocRepository returns a Repository backed by the document store.
func NewDocRepository(docs *docstore.Documents) Repository {
	return &docRepository{docs: docs}
}

func (r *docRepository) PersonalInfo(ctx context.Context) (*PersonalInfo, bool, error) {
	var info PersonalInfo
	if !r.docs.LoadOr(ctx, PersonalInfoKey, &info) {
		return nil, false, nil
	}
	return &info, true, nil
}

func (r *docRepository) SavePersonalInfo(ctx context.Context, info *PersonalInfo) error {
	return r.docs.Save(ctx, PersonalInfoKey, info)
}

func (r *docRepository) PatientData(ctx context.Context) (*PatientData, bool, error) {
	var data PatientData
	if !r.docs.LoadOr(ctx, PatientDataKey, &data) {
		return nil, false, nil
	}
	return &data, true, nil
}

func (r *docRepository) SavePatientData(ctx context.Context, data *PatientData) error {
	return r.docs.Save(ctx, PatientDataKey, data)
}

func (r *docRepository) PatientID(ctx context.Context) (string, bool, error) {
	var id string
	if !r.docs.LoadOr(ctx, PatientIDKey, &id) {
		return "", false, nil
	}
	return id, true, nil
}

func (r *docRepository) SavePatientID(ctx context.Context, id string) error {
	return r.docs.Save(ctx, PatientIDKey, id)
}
