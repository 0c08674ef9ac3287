// Package rank identifies a worker within its parallel allocation.
//
// Workers are started by an external launcher (mpirun, srun, or a plain
// shell loop) that assigns each process a rank and a total process count.
// Taskfarmer uses these only to label log output; no scheduling decision
// depends on them.
package rank

import (
	"os"
	"strconv"
)

// Info holds a worker's position within the allocation.
type Info struct {
	// Rank is the zero-based index of this worker.
	Rank int
	// Size is the total number of workers in the allocation.
	Size int
}

// envPair names the rank and size variables exported by one launcher.
type envPair struct {
	rank string
	size string
}

// Launchers probed in order. The TASKFARMER_ pair lets ad-hoc shell
// launchers participate.
var launchers = []envPair{
	{"OMPI_COMM_WORLD_RANK", "OMPI_COMM_WORLD_SIZE"}, // Open MPI
	{"PMI_RANK", "PMI_SIZE"},                         // MPICH / Intel MPI
	{"SLURM_PROCID", "SLURM_NTASKS"},                 // Slurm srun
	{"TASKFARMER_RANK", "TASKFARMER_SIZE"},
}

// Detect reads the worker's rank and allocation size from the launcher
// environment. A standalone process (no recognized launcher) is rank 0
// of 1.
func Detect() Info {
	for _, p := range launchers {
		rankVal, ok := os.LookupEnv(p.rank)
		if !ok {
			continue
		}
		r, err := strconv.Atoi(rankVal)
		if err != nil || r < 0 {
			continue
		}

		s := 1
		if sizeVal, ok := os.LookupEnv(p.size); ok {
			if n, err := strconv.Atoi(sizeVal); err == nil && n > 0 {
				s = n
			}
		}
		return Info{Rank: r, Size: s}
	}
	return Info{Rank: 0, Size: 1}
}
