package db

import (
	"context"
	"encoding/json"
	"path"

	"github.com/pkg/errors"

	"github.com/icook/tiny-flipper/identity"
)

const keyPrefixContracts = "/contract/"

var ErrContractNotFound = errors.New("contract not found")

// Instance is a deployed contract as it sits in storage: the code it runs and
// its encoded state.
type Instance struct {
	Code  string `json:"code"`
	State []byte `json:"state"`
}

// Store persists contract instances on top of a StorageDriver.
type Store struct {
	d StorageDriver
}

func NewStore(d StorageDriver) *Store {
	return &Store{d: d}
}

func (s *Store) instancePath(id identity.ContractID) string {
	return path.Join(keyPrefixContracts, id.String())
}

// PutInstance writes the instance under id, replacing what was there.
func (s *Store) PutInstance(ctx context.Context, id identity.ContractID, inst Instance) error {
	if inst.Code == "" {
		return errors.New("instance code is required")
	}
	raw, err := json.Marshal(inst)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := s.d.WriteKey(ctx, s.instancePath(id), raw); err != nil {
		return errors.Wrapf(err, "write contract %s", id)
	}
	return nil
}

// GetInstance loads the instance stored under id.
func (s *Store) GetInstance(ctx context.Context, id identity.ContractID) (Instance, error) {
	raw, err := s.d.GetKey(ctx, s.instancePath(id))
	if s.d.ErrIsNotFound(err) {
		return Instance{}, errors.Wrapf(ErrContractNotFound, "contract %s", id)
	}
	if err != nil {
		return Instance{}, errors.Wrapf(err, "read contract %s", id)
	}
	var inst Instance
	if err := json.Unmarshal(raw, &inst); err != nil {
		return Instance{}, errors.Wrapf(err, "decode contract %s", id)
	}
	return inst, nil
}
