package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableUsers             = "users"
	tableModeProgress      = "mode_progress"
	tableMasteryStates     = "mastery_states"
	tableGraduationHistory = "graduation_history"
)

var (
	usersColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "age", Type: field.TypeInt},
		{Name: "updated_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       tableUsers,
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	modeProgressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "mode_id", Type: field.TypeString},
		{Name: "current_level", Type: field.TypeInt},
		{Name: "highest_level_reached", Type: field.TypeInt},
		{Name: "problems_solved", Type: field.TypeInt},
		{Name: "accuracy", Type: field.TypeFloat64},
		{Name: "stars_earned", Type: field.TypeInt},
		{Name: "last_played_at", Type: field.TypeTime},
	}
	modeProgressTable = &schema.Table{
		Name:       tableModeProgress,
		Columns:    modeProgressColumns,
		PrimaryKey: []*schema.Column{modeProgressColumns[0], modeProgressColumns[1]},
	}

	masteryStatesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "age_tier", Type: field.TypeInt},
		{Name: "modes_mastered", Type: field.TypeJSON},
		{Name: "overall_pct", Type: field.TypeFloat64},
		{Name: "status", Type: field.TypeString},
		{Name: "pending_request", Type: field.TypeJSON, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	masteryStatesTable = &schema.Table{
		Name:       tableMasteryStates,
		Columns:    masteryStatesColumns,
		PrimaryKey: []*schema.Column{masteryStatesColumns[0], masteryStatesColumns[1]},
	}

	graduationHistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "from_age", Type: field.TypeInt},
		{Name: "to_age", Type: field.TypeInt},
		{Name: "requested_at", Type: field.TypeTime},
		{Name: "approved_at", Type: field.TypeTime},
		{Name: "summary", Type: field.TypeJSON},
	}
	graduationHistoryTable = &schema.Table{
		Name:       tableGraduationHistory,
		Columns:    graduationHistoryColumns,
		PrimaryKey: []*schema.Column{graduationHistoryColumns[1], graduationHistoryColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "graduationhistory_user_id_approved_at",
				Columns: []*schema.Column{graduationHistoryColumns[1], graduationHistoryColumns[5]},
			},
		},
	}

	// tables lists every table created by auto-migration.
	tables = []*schema.Table{
		usersTable,
		modeProgressTable,
		masteryStatesTable,
		graduationHistoryTable,
	}
)
