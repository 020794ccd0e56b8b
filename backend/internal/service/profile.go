package service

import "github.com/fieldnotes-dev/fieldnotes/shared/domain"

type ProfileService interface {
	Get(username string) (domain.Profile, error)
}

type Profiles struct {
	storage ProfileStorage
}

func NewProfiles(storage ProfileStorage) *Profiles {
	return &Profiles{storage: storage}
}

func (p *Profiles) Get(username string) (domain.Profile, error) {
	return p.storage.ProfileByUsername(username)
}
