// Package build models the lifecycle of a build as seen by its plugins.
// Plugins register with a Host and are invoked once the build's artifacts
// have been generated.
package build

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"bundlesize/artifacts"
	"bundlesize/models"
)

type Plugin interface {
	Name() string
	OnBuildComplete(src artifacts.Source) (*models.Report, error)
}

type Host struct {
	plugins []Plugin
}

func NewHost() *Host {
	return &Host{}
}

// Register adds p to the host. Plugin names must be unique.
func (h *Host) Register(p Plugin) error {
	for _, existing := range h.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin %s is already registered", p.Name())
		}
	}
	h.plugins = append(h.plugins, p)
	log.Debugf("Registered plugin %s", p.Name())
	return nil
}

func (h *Host) Plugins() []Plugin {
	return h.plugins
}

// Complete fires the build-completion hook of every plugin in registration
// order. The first plugin error stops the run.
func (h *Host) Complete(src artifacts.Source) ([]*models.Report, error) {
	reports := make([]*models.Report, 0, len(h.plugins))
	for _, p := range h.plugins {
		log.Tracef("Running %s", p.Name())
		report, err := p.OnBuildComplete(src)
		if err != nil {
			return reports, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
