package envelope

import "errors"

var (
	ErrMissingAtlasJSON = errors.New("envelope: archive has no atlas.json")
	ErrMissingMapJSON   = errors.New("envelope: archive has no map.json")
	ErrMalformedJSON    = errors.New("envelope: malformed JSON manifest")
)
