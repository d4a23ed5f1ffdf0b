package manigo

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/cluster"
	"github.com/hupe1980/manigo/embed"
	"github.com/hupe1980/manigo/transport"
)

// PostprocessOptions configure clustering, transport and 2D reduction.
type PostprocessOptions struct {
	// K is the number of clusters. Defaults to 15, capped at the number
	// of embedded vectors.
	K int

	// Method selects the clustering algorithm: "kmeans" (default) or
	// "dbscan".
	Method string

	// Seed drives k-means initialization. Default: 0.
	Seed int64

	// MaxIter bounds k-means iterations. Default: 100.
	MaxIter int

	// Eps and MinPts parameterize DBSCAN.
	Eps    float64
	MinPts int

	// Embed selects the 2D reduction. Default: MDS.
	Embed embed.Method

	// Epsilon and SinkhornIter tune the transport solver; zero values
	// take the solver defaults.
	Epsilon      float64
	SinkhornIter int
}

// Postprocess clusters the embedding, computes optimal-transport distances
// between condition slices, and reduces embedding and centroids to a shared
// 2D frame. All artifacts are attached to the dataset together.
func (p *Pipeline) Postprocess(ctx context.Context, ds *Dataset, opts PostprocessOptions) error {
	start := time.Now()
	err := p.postprocess(ctx, ds, &opts)

	p.metrics.RecordPostprocess(opts.K, time.Since(start), err)
	p.logger.LogPostprocess(ctx, opts.K, ds.NumSlices(), time.Since(start), err)
	return err
}

func (p *Pipeline) postprocess(ctx context.Context, ds *Dataset, opts *PostprocessOptions) error {
	if ds.Emb == nil {
		return ErrNotEmbedded
	}
	n, dim := ds.Emb.Dims()

	if opts.K <= 0 {
		opts.K = 15
	}
	if opts.K > n {
		p.logger.WarnContext(ctx, "cluster count capped at vector count",
			"requested", opts.K,
			"k", n,
		)
		opts.K = n
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 100
	}

	vectors := make([]float64, 0, n*dim)
	for i := 0; i < n; i++ {
		vectors = append(vectors, ds.Emb.RawRowView(i)...)
	}

	var (
		res *cluster.Result
		err error
	)
	switch opts.Method {
	case "", "kmeans":
		res, err = cluster.KMeans(ctx, vectors, dim, opts.K, opts.Seed, opts.MaxIter)
	case "dbscan":
		res, err = cluster.DBSCAN(vectors, dim, opts.Eps, opts.MinPts)
	default:
		err = cluster.ErrUnknownMethod
	}
	if err != nil {
		return err
	}

	if err := res.SetSlices(ds.Slices); err != nil {
		return err
	}
	cluster.RelabelByProximity(res)

	dists, err := transport.SliceDistances(ctx, res, transport.Options{
		Epsilon: opts.Epsilon,
		MaxIter: opts.SinkhornIter,
	})
	if err != nil {
		return err
	}

	// Reduce embedding and centroids in one frame so centroid markers
	// land where their members do.
	stacked := mat.NewDense(n+res.K, dim, nil)
	stacked.Slice(0, n, 0, dim).(*mat.Dense).Copy(ds.Emb)
	for j := 0; j < res.K; j++ {
		for c := 0; c < dim; c++ {
			stacked.Set(n+j, c, res.Centroids[j*dim+c])
		}
	}
	flat, err := embed.Embed(stacked, opts.Embed, 2)
	if err != nil {
		return err
	}

	emb2d := mat.DenseCopyOf(flat.Slice(0, n, 0, 2))
	cent2d := mat.DenseCopyOf(flat.Slice(n, n+res.K, 0, 2))

	ds.Clusters = res
	ds.Dist = dists.Dist
	ds.Gamma = dists.Gamma
	ds.CDist = dists.CDist
	ds.Emb2D = emb2d
	ds.Centroids2D = cent2d
	return nil
}

// CompareSlices attributes the transport cost between two condition slices
// back to individual vertices. Source vertices receive the outgoing mass
// cost of their cluster, target vertices the negated incoming cost; all
// other vertices score zero.
func CompareSlices(ds *Dataset, s, t int) ([]float64, error) {
	if ds.Clusters == nil || ds.Gamma == nil || ds.CDist == nil {
		return nil, ErrNotPostprocessed
	}
	nSlices := ds.NumSlices()
	if s < 0 || s >= nSlices {
		return nil, &transport.ErrSliceRange{Slice: s, N: nSlices}
	}
	if t < 0 || t >= nSlices {
		return nil, &transport.ErrSliceRange{Slice: t, N: nSlices}
	}
	if s == t {
		return nil, ErrEqualSlices
	}

	res := ds.Clusters
	gamma := ds.Gamma[s][t]
	k := res.K

	// Per-cluster cost contributions, diagonal excluded: mass staying in
	// a cluster moves nowhere.
	rowSum := make([]float64, k)
	colSum := make([]float64, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			w := gamma.At(i, j) * ds.CDist.At(i, j)
			rowSum[i] += w
			colSum[j] += w
		}
	}

	scores := make([]float64, ds.Nodes())
	sLo, sHi := uint32(res.Slices[s]), uint32(res.Slices[s+1])
	tLo, tHi := uint32(res.Slices[t]), uint32(res.Slices[t+1])
	for j := 0; j < k; j++ {
		it := res.Members(j).Iterator()
		for it.HasNext() {
			v := it.Next()
			switch {
			case v >= sLo && v < sHi:
				scores[v] = rowSum[j]
			case v >= tLo && v < tHi:
				scores[v] = -colSum[j]
			}
		}
	}
	return scores, nil
}
