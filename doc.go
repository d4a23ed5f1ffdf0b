// Package manigo computes geometry-aware embeddings of vector fields
// sampled on manifold graphs.
//
// # Overview
//
// A Dataset couples a vertex signal with the geometric operators of its
// underlying graph: a Laplacian for scalar diffusion, optionally a
// connection Laplacian and per-edge rotations for vector-valued signals,
// directional derivative kernels, and a normalized adjacency for message
// passing. A Pipeline pushes the signal through learned-time heat
// diffusion, repeated anisotropic convolution, optional rotation-invariant
// reduction, message passing and a feed-forward head, attaching the
// resulting embedding to the dataset.
//
// Postprocessing clusters the embedding, relabels clusters into a
// canonical proximity order, measures distances between condition slices
// with entropic optimal transport, and reduces everything to a shared 2D
// frame. CompareSlices attributes transport cost back to individual
// vertices.
//
// # Usage
//
//	p, err := manigo.New(3, 2).
//	    Order(2).
//	    InnerProduct(true).
//	    Hidden(64).
//	    Out(16).
//	    Build(manigo.WithBlobStore(blobstore.NewLocalStore("./artifacts")))
//	if err != nil { ... }
//	defer p.Close()
//
//	ds, _ := manigo.NewDataset(g, x, kernels, manigo.WithSlices([]int{0, 500, 1000}))
//	if _, err := p.Forward(ctx, ds); err != nil { ... }
//	if err := p.Postprocess(ctx, ds, manigo.PostprocessOptions{K: 10}); err != nil { ... }
//
//	scores, _ := manigo.CompareSlices(ds, 0, 1)
//	_ = p.Save(ctx, "run1.mgo", ds)
//
// # Persistence
//
// Artifacts are saved as a self-describing sectioned binary format with
// per-section checksums and pluggable compression, to any
// blobstore.BlobStore backend (local disk, memory, S3, MinIO).
package manigo
