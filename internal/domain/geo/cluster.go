package geo

import (
	"math/rand"
)

// Cluster groups points around a centroid. It exists only for the duration
// of a clustering run; RouteBuilder turns it into a persisted Route.
type Cluster struct {
	Centroid Point
	Members  []Point
}

const (
	// maxIterations bounds the refinement loop.
	maxIterations = 100
	// convergenceTolerance is the centroid movement (km) below which the
	// loop stops early.
	convergenceTolerance = 1e-4
)

// KMeans partitions points into at most k clusters by iterative refinement
// with distance-proportional (k-means++ style) seeding.
//
// Every input point ends up in exactly one returned cluster. Centroids that
// attract no points are dropped, so fewer than k clusters may come back,
// in particular when len(points) < k or when all points sit on top of each
// other. The caller supplies the random source so runs can be made
// deterministic.
func KMeans(points []Point, k int, rng *rand.Rand) []Cluster {
	if len(points) == 0 || k < 1 {
		return nil
	}

	centroids := seedCentroids(points, k, rng)

	var clusters []Cluster
	for iteration := 0; iteration < maxIterations; iteration++ {
		// fresh assignment every pass; the previous iteration's clusters
		// are never mutated, which keeps the convergence comparison honest
		clusters = assignToNearest(points, centroids)

		newCentroids := make([]Point, len(clusters))
		for i, cluster := range clusters {
			newCentroids[i] = meanOf(cluster.Members)
			clusters[i].Centroid = newCentroids[i]
		}

		converged := true
		for i, old := range centroids {
			// surviving centroids are compared pairwise; indexes beyond the
			// surviving count belonged to emptied clusters
			if i >= len(newCentroids) {
				continue
			}
			if old.DistanceKM(newCentroids[i]) >= convergenceTolerance {
				converged = false
				break
			}
		}

		centroids = newCentroids
		if converged {
			return clusters
		}
	}

	return clusters
}

// seedCentroids picks the first centroid uniformly at random, then each
// subsequent one with probability proportional to the squared distance to
// the nearest already-chosen centroid.
func seedCentroids(points []Point, k int, rng *rand.Rand) []Point {
	centroids := make([]Point, 0, k)

	first := points[rng.Intn(len(points))]
	centroids = append(centroids, Point{Latitude: first.Latitude, Longitude: first.Longitude})

	for len(centroids) < k {
		weights := make([]float64, len(points))
		var total float64
		for i, point := range points {
			nearest := point.DistanceKM(centroids[0])
			for _, centroid := range centroids[1:] {
				if d := point.DistanceKM(centroid); d < nearest {
					nearest = d
				}
			}
			weights[i] = nearest * nearest
			total += weights[i]
		}

		target := rng.Float64() * total
		var cumulative float64
		chosen := points[len(points)-1]
		for i, weight := range weights {
			cumulative += weight
			if cumulative >= target {
				chosen = points[i]
				break
			}
		}
		centroids = append(centroids, Point{Latitude: chosen.Latitude, Longitude: chosen.Longitude})
	}

	return centroids
}

// assignToNearest buckets every point under its nearest centroid and drops
// centroids that attracted nothing.
func assignToNearest(points []Point, centroids []Point) []Cluster {
	buckets := make([][]Point, len(centroids))
	for _, point := range points {
		idx := nearestCentroid(point, centroids)
		buckets[idx] = append(buckets[idx], point)
	}

	clusters := make([]Cluster, 0, len(centroids))
	for i, members := range buckets {
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Centroid: centroids[i], Members: members})
	}
	return clusters
}

func nearestCentroid(point Point, centroids []Point) int {
	nearest := 0
	minDist := point.DistanceKM(centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := point.DistanceKM(centroids[i]); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

func meanOf(points []Point) Point {
	var sumLat, sumLon float64
	for _, point := range points {
		sumLat += point.Latitude
		sumLon += point.Longitude
	}
	n := float64(len(points))
	return Point{Latitude: sumLat / n, Longitude: sumLon / n}
}
