package urbansim

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

/* Trajectory recording stuff */

// How often (in ticks) agent positions get recorded
const recordSampleTicks = 5

// TrajectoryRecorder accumulates downsampled agent positions during simulation run
type TrajectoryRecorder struct {
	records []TrajectoryRecord
}

// NewTrajectoryRecorder creates empty recorder
func NewTrajectoryRecorder() *TrajectoryRecorder {
	return &TrajectoryRecorder{
		records: make([]TrajectoryRecord, 0),
	}
}

// Append adds position snapshot for the agent
func (recorder *TrajectoryRecorder) Append(tick int, agent *Agent, status RecordStatus) {
	pt := agent.Coordinate()
	recorder.records = append(recorder.records, TrajectoryRecord{
		AgentID: agent.ID,
		Tick:    tick,
		Lat:     pt.Lat,
		Lon:     pt.Lon,
		Kind:    agent.Kind,
		Status:  status,
	})
}

// Records returns accumulated records in append order
func (recorder *TrajectoryRecorder) Records() []TrajectoryRecord {
	return recorder.records
}

// ExportRecordsToCSV saves trajectory records to CSV file
func ExportRecordsToCSV(records []TrajectoryRecord, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"tick", "agent_id", "lat", "lon", "kind", "status"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i := range records {
		err = writer.Write([]string{
			fmt.Sprintf("%d", records[i].Tick),
			records[i].AgentID,
			fmt.Sprintf("%.5f", records[i].Lat),
			fmt.Sprintf("%.5f", records[i].Lon),
			fmt.Sprintf("%s", records[i].Kind),
			fmt.Sprintf("%s", records[i].Status),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	return nil
}
