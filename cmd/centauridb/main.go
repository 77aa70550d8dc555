// Command centauridb is a minimal demo of the transactional storage
// core: it opens a data directory, commits and rolls back a handful
// of writes by hand, and prints what each reader observes.
package main

import (
	"flag"
	"os"

	"centauri/internal/engine"
	"centauri/internal/file"
	"centauri/internal/telemetry"

	"github.com/sirupsen/logrus"
)

func main() {
	dir := flag.String("dir", "centauridata", "data directory")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		telemetry.SetLevel(logrus.DebugLevel)
	}
	log := telemetry.For("main")

	e, err := engine.Open(engine.NewConfig(*dir))
	if err != nil {
		log.Fatalf("open engine: %v", err)
	}
	defer e.Close()

	blk := file.NewBlockID("demo.tbl", 1)

	tx1, err := e.NewTransaction()
	if err != nil {
		log.Fatalf("new tx1: %v", err)
	}
	if err := tx1.Pin(blk); err != nil {
		log.Fatalf("pin: %v", err)
	}
	if err := tx1.SetInt(blk, 80, 1, true); err != nil {
		log.Fatalf("set int: %v", err)
	}
	if err := tx1.SetString(blk, 40, "one", true); err != nil {
		log.Fatalf("set string: %v", err)
	}
	if err := tx1.Commit(); err != nil {
		log.Fatalf("commit tx1: %v", err)
	}

	tx2, err := e.NewTransaction()
	if err != nil {
		log.Fatalf("new tx2: %v", err)
	}
	if err := tx2.Pin(blk); err != nil {
		log.Fatalf("pin: %v", err)
	}
	i, err := tx2.GetInt(blk, 80)
	if err != nil {
		log.Fatalf("get int: %v", err)
	}
	s, err := tx2.GetString(blk, 40)
	if err != nil {
		log.Fatalf("get string: %v", err)
	}
	log.Infof("after tx1 commit: (%d, %q) [expect (1, \"one\")]", i, s)

	if err := tx2.SetInt(blk, 80, 2, true); err != nil {
		log.Fatalf("set int: %v", err)
	}
	if err := tx2.SetString(blk, 40, "one!", true); err != nil {
		log.Fatalf("set string: %v", err)
	}
	if err := tx2.Commit(); err != nil {
		log.Fatalf("commit tx2: %v", err)
	}

	tx3, err := e.NewTransaction()
	if err != nil {
		log.Fatalf("new tx3: %v", err)
	}
	if err := tx3.Pin(blk); err != nil {
		log.Fatalf("pin: %v", err)
	}
	if err := tx3.SetInt(blk, 80, 9999, true); err != nil {
		log.Fatalf("set int: %v", err)
	}
	if err := tx3.Rollback(); err != nil {
		log.Fatalf("rollback tx3: %v", err)
	}

	tx4, err := e.NewTransaction()
	if err != nil {
		log.Fatalf("new tx4: %v", err)
	}
	if err := tx4.Pin(blk); err != nil {
		log.Fatalf("pin: %v", err)
	}
	i, err = tx4.GetInt(blk, 80)
	if err != nil {
		log.Fatalf("get int: %v", err)
	}
	log.Infof("after tx3 rollback: %d [expect 2, the last committed value]", i)
	if err := tx4.Commit(); err != nil {
		log.Fatalf("commit tx4: %v", err)
	}

	os.Exit(0)
}
