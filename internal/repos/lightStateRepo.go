package repos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

const initSchema = `
  CREATE TABLE IF NOT EXISTS light_state (
    stable_id VARCHAR(36) PRIMARY KEY,
    on_state INTEGER,
    brightness INTEGER,
    red INTEGER,
    green INTEGER,
    blue INTEGER,
    white INTEGER,
    colour_temp INTEGER,
    last_update_time TIMESTAMP
  );
`

// LightStateRepo persists the last known state of each light. The controller
// can't be queried for levels, so this is what restores state across restarts.
type LightStateRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewLightStateRepo(logger *log.Logger, db *sql.DB) (*LightStateRepo, error) {

	_, err := db.Exec(initSchema)
	if err != nil {
		return nil, fmt.Errorf("Error initialising light state schema: %w", err)
	}

	return &LightStateRepo{logger: logger, db: db}, nil
}

func (r *LightStateRepo) Save(stableID string, state lights.State) error {
	_, err := r.db.Exec(`
    INSERT INTO light_state
      (stable_id, on_state, brightness, red, green, blue, white, colour_temp, last_update_time)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    ON CONFLICT (stable_id) DO UPDATE SET
      on_state = $2,
      brightness = $3,
      red = $4,
      green = $5,
      blue = $6,
      white = $7,
      colour_temp = $8,
      last_update_time = $9
  `,
		stableID,
		state.On,
		state.Brightness,
		state.RGBW[0], state.RGBW[1], state.RGBW[2], state.RGBW[3],
		state.ColorTemp,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("Error saving state for light (%s): %w", stableID, err)
	}
	return nil
}

// Get returns the stored state for the light, or found=false when the light
// has never been saved.
func (r *LightStateRepo) Get(stableID string) (lights.State, bool, error) {
	row := r.db.QueryRow(`
    SELECT on_state, brightness, red, green, blue, white, colour_temp
    FROM light_state
    WHERE stable_id = $1`, stableID)

	var (
		on         bool
		brightness int
		red        int
		green      int
		blue       int
		white      int
		colourTemp int
	)
	err := row.Scan(&on, &brightness, &red, &green, &blue, &white, &colourTemp)
	if err != nil {
		if err == sql.ErrNoRows {
			return lights.State{}, false, nil
		}
		return lights.State{}, false, fmt.Errorf("Error reading state for light (%s): %w", stableID, err)
	}

	state := lights.NewState()
	state.On = on
	state.Brightness = uint8(brightness)
	state.SetRGBW(uint8(red), uint8(green), uint8(blue), uint8(white))
	state.SetColorTemp(colourTemp)

	return state, true, nil
}
