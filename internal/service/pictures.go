package service

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"address-reconciler/internal/models"
	"address-reconciler/internal/normalize"

	"github.com/rs/zerolog/log"
)

// BindPictures stores picture blobs on the records whose address matches
// the file name ("Main_12_Springfield.jpg"). Each blob goes into the next
// free picture field; a blob already present on the record is skipped. It
// returns the updated records and the file names that matched no record.
func (s *ReconcileService) BindPictures(pictures map[string]string) ([]models.Record, []string) {
	names := make([]string, 0, len(pictures))
	for name := range pictures {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		bound     []models.Record
		unmatched []string
	)
	for _, name := range names {
		a, ok := AddressFromFilename(name)
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		r, ok := findByAddress(s.records.Snapshot(), a)
		if !ok {
			log.Warn().Str("file", name).Msg("no record for picture")
			unmatched = append(unmatched, name)
			continue
		}

		field, ok := nextPictureField(r, pictures[name])
		if !ok {
			continue
		}
		updated, err := s.records.PointUpdate(r.ID(), map[string]string{field: pictures[name]})
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("cannot bind picture")
			continue
		}
		bound = append(bound, updated)
	}
	return bound, unmatched
}

// AddressFromFilename derives an address from a picture file name. The
// extension is dropped and underscores separate the address parts.
func AddressFromFilename(name string) (models.Address, bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Join(strings.Fields(strings.ReplaceAll(base, "_", " ")), " ")
	return normalize.SplitAddress(base)
}

func findByAddress(records []models.Record, a models.Address) (models.Record, bool) {
	for _, r := range records {
		ra, _ := normalize.ExtractAddress(r)
		if !normalize.LooseEqual(ra.Street, a.Street) {
			continue
		}
		if !normalize.HouseNumberEqual(ra.HouseNumber, a.HouseNumber, normalize.HousePunctuation) {
			continue
		}
		if a.City != "" && !normalize.LooseEqual(ra.City, a.City) {
			continue
		}
		if a.Postcode != "" && !normalize.PostcodeEqual(ra.Postcode, a.Postcode) {
			continue
		}
		return r, true
	}
	return nil, false
}

func nextPictureField(r models.Record, blob string) (string, bool) {
	for _, f := range r.PictureFields() {
		if r[f] == blob {
			return "", false
		}
	}
	for n := 1; ; n++ {
		field := models.FieldPicture
		if n > 1 {
			field += strconv.Itoa(n)
		}
		if r[field] == "" {
			return field, true
		}
	}
}
