package manigo

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/cluster"
	"github.com/hupe1980/manigo/persistence"
)

// artifactMeta is the codec-encoded header of a saved artifact set.
type artifactMeta struct {
	Nodes  int   `json:"nodes"`
	Dim    int   `json:"dim"`
	K      int   `json:"k"`
	Slices []int `json:"slices,omitempty"`
}

// Save persists the dataset's attached artifacts under the given name.
// Geometry inputs (graph, kernels, rotations) are not saved; they are
// recomputable from the raw data and tend to dwarf the artifacts.
func (p *Pipeline) Save(ctx context.Context, name string, ds *Dataset) error {
	start := time.Now()
	err := p.save(ctx, name, ds)

	p.metrics.RecordSave(time.Since(start), err)
	p.logger.LogSave(ctx, name, time.Since(start), err)
	return err
}

func (p *Pipeline) save(ctx context.Context, name string, ds *Dataset) error {
	if p.mgr == nil {
		return ErrNoStore
	}
	if ds.Emb == nil {
		return ErrNotEmbedded
	}

	n, dim := ds.Emb.Dims()
	meta := artifactMeta{Nodes: n, Dim: dim, Slices: ds.Slices}

	a := persistence.NewArchive()
	if err := a.Add("emb", persistence.EncodeDense(ds.Emb)); err != nil {
		return err
	}

	if ds.Clusters != nil {
		meta.K = ds.Clusters.K
		if err := a.Add("labels", persistence.EncodeInts(ds.Clusters.Labels)); err != nil {
			return err
		}
		if err := a.Add("centroids", persistence.EncodeFloats(ds.Clusters.Centroids)); err != nil {
			return err
		}
	}
	if ds.Emb2D != nil {
		if err := a.Add("emb2d", persistence.EncodeDense(ds.Emb2D)); err != nil {
			return err
		}
	}
	if ds.Centroids2D != nil {
		if err := a.Add("centroids2d", persistence.EncodeDense(ds.Centroids2D)); err != nil {
			return err
		}
	}
	if ds.Dist != nil {
		if err := a.Add("dist", persistence.EncodeDense(ds.Dist)); err != nil {
			return err
		}
	}
	if ds.CDist != nil {
		if err := a.Add("cdist", persistence.EncodeDense(ds.CDist)); err != nil {
			return err
		}
	}
	for s := range ds.Gamma {
		for t := range ds.Gamma[s] {
			if ds.Gamma[s][t] == nil {
				continue
			}
			if err := a.Add(fmt.Sprintf("gamma/%d/%d", s, t), persistence.EncodeDense(ds.Gamma[s][t])); err != nil {
				return err
			}
		}
	}

	return p.mgr.Save(ctx, name, a, meta)
}

// Load restores previously saved artifacts into the dataset. Inputs on the
// dataset (signal, operators, kernels) are left untouched.
func (p *Pipeline) Load(ctx context.Context, name string, ds *Dataset) error {
	start := time.Now()
	err := p.load(ctx, name, ds)

	p.metrics.RecordLoad(time.Since(start), err)
	p.logger.LogLoad(ctx, name, time.Since(start), err)
	return err
}

func (p *Pipeline) load(ctx context.Context, name string, ds *Dataset) error {
	if p.mgr == nil {
		return ErrNoStore
	}

	var meta artifactMeta
	a, err := p.mgr.Load(ctx, name, &meta)
	if err != nil {
		return err
	}

	loadDense := func(name string) error {
		if !a.Has(name) {
			return nil
		}
		raw, err := a.Section(name)
		if err != nil {
			return err
		}
		m, err := persistence.DecodeDense(raw)
		if err != nil {
			return err
		}
		switch name {
		case "emb":
			ds.Emb = m
		case "emb2d":
			ds.Emb2D = m
		case "centroids2d":
			ds.Centroids2D = m
		case "dist":
			ds.Dist = m
		case "cdist":
			ds.CDist = m
		}
		return nil
	}
	for _, name := range []string{"emb", "emb2d", "centroids2d", "dist", "cdist"} {
		if err := loadDense(name); err != nil {
			return err
		}
	}

	if a.Has("labels") {
		rawLabels, err := a.Section("labels")
		if err != nil {
			return err
		}
		labels, err := persistence.DecodeInts(rawLabels)
		if err != nil {
			return err
		}
		rawCents, err := a.Section("centroids")
		if err != nil {
			return err
		}
		cents, err := persistence.DecodeFloats(rawCents)
		if err != nil {
			return err
		}
		res := &cluster.Result{
			K:         meta.K,
			Dim:       meta.Dim,
			Labels:    labels,
			Centroids: cents,
		}
		if len(meta.Slices) >= 2 {
			if err := res.SetSlices(meta.Slices); err != nil {
				return err
			}
		}
		ds.Clusters = res
	}

	if len(meta.Slices) >= 2 {
		ds.Slices = meta.Slices
		nSlices := len(meta.Slices) - 1
		anyGamma := false
		gamma := make([][]*mat.Dense, nSlices)
		for s := range gamma {
			gamma[s] = make([]*mat.Dense, nSlices)
		}
		for s := 0; s < nSlices; s++ {
			for t := 0; t < nSlices; t++ {
				key := fmt.Sprintf("gamma/%d/%d", s, t)
				if !a.Has(key) {
					continue
				}
				raw, err := a.Section(key)
				if err != nil {
					return err
				}
				m, err := persistence.DecodeDense(raw)
				if err != nil {
					return err
				}
				gamma[s][t] = m
				anyGamma = true
			}
		}
		if anyGamma {
			ds.Gamma = gamma
		}
	}

	return nil
}

// Close releases the artifact manager, waiting for background saves.
func (p *Pipeline) Close() error {
	if p.mgr == nil {
		return nil
	}
	return p.mgr.Close()
}
