package demtile

// A JobGenerator enumerates the tiles of a bounding box as fetch jobs and
// builds the workers that execute them.
type JobGenerator interface {
	CreateWorker() (func(id int, jobs chan *TileRequest, results chan *TileResponse), error)
	CreateJobs(jobs chan *TileRequest) error
}
