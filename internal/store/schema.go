package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projections (
    id                   TEXT PRIMARY KEY,
    label                TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL,
    vehicles             TEXT NOT NULL,
    real_estate          TEXT NOT NULL,
    cash                 TEXT NOT NULL,
    savings_y10          TEXT NOT NULL,
    savings_y20          TEXT NOT NULL,
    series               TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projections_created ON projections(created_at);
`
