package agentconfig

import "errors"

// Patcher applies load-mutate-save edits to the active agent config.
type Patcher struct {
	Path string
}

func NewPatcher(path string) *Patcher {
	return &Patcher{Path: path}
}

func (p *Patcher) ApplyPorts(audiosocketPort, rtpPort int) error {
	return p.update(func(d *Document) {
		d.SetPorts(audiosocketPort, rtpPort)
	})
}

func (p *Patcher) ApplyPipeline(name string) error {
	return p.update(func(d *Document) {
		d.SetActivePipeline(name)
	})
}

// Summary reads the current config. A missing file yields the defaults so
// guidance can still be printed.
func (p *Patcher) Summary() (*Summary, error) {
	d, err := Load(p.Path)
	if errors.Is(err, ErrNotFound) {
		return &Summary{AppName: DefaultAppName}, nil
	}
	if err != nil {
		return nil, err
	}
	return d.Summary()
}

func (p *Patcher) update(fn func(*Document)) error {
	d, err := Load(p.Path)
	if err != nil {
		return err
	}
	fn(d)
	return d.Save(p.Path)
}
