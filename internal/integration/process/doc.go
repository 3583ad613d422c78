// Package process starts and reaps the child processes behind live zones.
//
// A Supervisor tracks every child so that shutdown can hang them up and
// reap them. Shell zones start their shell through Start with the PTY slave
// already wired to the command's standard streams; pipe and watch zones use
// Capture, which runs a shell command with a hard timeout:
//
//	sup := process.NewSupervisor()
//	defer sup.Shutdown(time.Second)
//
//	res, err := sup.Capture(ctx, "clock", "", "date", 10*time.Second)
//	if errors.Is(err, process.ErrTimeout) {
//	    // partial output in res.Output
//	}
package process
