// Package services implements the driving port interfaces.
// Services contain the marketplace client's behaviour: the filter
// synchronizer, the catalog data service, the pagination renderer and
// the account, bookmark and settings services. They orchestrate calls
// to driven ports (adapters) and broadcast state through Subjects.
package services
