package database

// Schema contains all SQL statements for creating tables and indexes
const Schema = `
-- Participants table: Competitors with a derived point total
CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    team TEXT NOT NULL DEFAULT '',

    -- Derived field, owned by the aggregation pipeline
    total_points INTEGER NOT NULL DEFAULT 0,

    joined_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Teams table: Named groups of participants with a derived point total
CREATE TABLE IF NOT EXISTS teams (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',

    -- Derived field, owned by the aggregation pipeline
    total_points INTEGER NOT NULL DEFAULT 0,

    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Activities table: The ledger of point-scoring events
CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    user_email TEXT NOT NULL,
    user_name TEXT NOT NULL DEFAULT '',  -- denormalized for read convenience, not authoritative
    activity_type TEXT NOT NULL,
    duration INTEGER NOT NULL,           -- minutes
    distance REAL,                       -- km, optional
    calories INTEGER NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 0,
    date INTEGER NOT NULL,               -- Unix timestamp
    notes TEXT NOT NULL DEFAULT '',

    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Leaderboard table: Materialized rank snapshots, fully replaced per scope
CREATE TABLE IF NOT EXISTS leaderboard (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope TEXT NOT NULL,                 -- 'individual' or 'team'
    name TEXT NOT NULL,
    email TEXT,                          -- individual scope only
    team TEXT,
    points INTEGER NOT NULL,
    rank INTEGER NOT NULL,
    last_updated INTEGER NOT NULL        -- shared logical timestamp of the run
);

-- Workouts table: Static catalog of workout suggestions
CREATE TABLE IF NOT EXISTS workouts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    difficulty TEXT NOT NULL,
    duration INTEGER NOT NULL,           -- minutes
    exercises TEXT NOT NULL DEFAULT '[]', -- JSON array of exercise descriptions
    category TEXT NOT NULL
);

-- Indexes for participants table
CREATE INDEX IF NOT EXISTS idx_participants_team ON participants(team);
CREATE INDEX IF NOT EXISTS idx_participants_total_points ON participants(total_points DESC);

-- Indexes for activities table
CREATE INDEX IF NOT EXISTS idx_activities_user_email ON activities(user_email);
CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date DESC);
CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(activity_type);

-- Indexes for leaderboard table
CREATE INDEX IF NOT EXISTS idx_leaderboard_scope_rank ON leaderboard(scope, rank);
CREATE INDEX IF NOT EXISTS idx_leaderboard_team ON leaderboard(team);

-- Indexes for workouts table
CREATE INDEX IF NOT EXISTS idx_workouts_difficulty ON workouts(difficulty);
CREATE INDEX IF NOT EXISTS idx_workouts_category ON workouts(category);
`
