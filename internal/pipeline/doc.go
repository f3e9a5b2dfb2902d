// Package pipeline takes catalog items from URL to archived media with
// embedded caption tracks. Three stages run in order:
//
//	fetch    downloads the media and its caption track
//	convert  rebuilds the captions as readable timed lines
//	embed    muxes every track into the container and files it away
//
// Each stage moves its item between catalog statuses; failures are mapped to
// failed or review via the services error taxonomy. The conversion core is
// exported standalone so a single track can be converted without touching
// the catalog.
package pipeline
