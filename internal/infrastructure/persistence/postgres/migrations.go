package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create stakeholder profiles table
-- Version: 001

CREATE TABLE IF NOT EXISTS stakeholder_profiles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    full_name VARCHAR(200) NOT NULL,
    email VARCHAR(254) NOT NULL UNIQUE,
    roles TEXT[] NOT NULL DEFAULT '{}',
    skills TEXT[] NOT NULL DEFAULT '{}',
    organization VARCHAR(200) NOT NULL DEFAULT '',
    title VARCHAR(200) NOT NULL DEFAULT '',
    years_experience INTEGER NOT NULL DEFAULT 0,
    available BOOLEAN NOT NULL DEFAULT TRUE,
    registered_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_years_experience CHECK (years_experience >= 0)
);

CREATE INDEX IF NOT EXISTS idx_profiles_email ON stakeholder_profiles(email);
CREATE INDEX IF NOT EXISTS idx_profiles_roles ON stakeholder_profiles USING GIN(roles);
CREATE INDEX IF NOT EXISTS idx_profiles_skills ON stakeholder_profiles USING GIN(skills);
CREATE INDEX IF NOT EXISTS idx_profiles_available ON stakeholder_profiles(available) WHERE available = TRUE;
CREATE INDEX IF NOT EXISTS idx_profiles_registered_at ON stakeholder_profiles(registered_at);

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_profiles_updated_at ON stakeholder_profiles;
CREATE TRIGGER update_profiles_updated_at
    BEFORE UPDATE ON stakeholder_profiles
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_profiles_updated_at ON stakeholder_profiles;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS stakeholder_profiles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SUBJECTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create engagement subject tables
-- Version: 002
-- Purpose: Networking events, guest lectures, and case competitions

-- Subject IDs are slugs or UUIDs, whichever the organizer supplies.
CREATE TABLE IF NOT EXISTS events (
    id VARCHAR(100) PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    location VARCHAR(255) NOT NULL DEFAULT '',
    starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
    required_skills TEXT[] NOT NULL DEFAULT '{}',
    capacity INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_capacity CHECK (capacity >= 0)
);

CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at);

CREATE TABLE IF NOT EXISTS guest_lectures (
    id VARCHAR(100) PRIMARY KEY,
    topic VARCHAR(255) NOT NULL,
    course_name VARCHAR(255) NOT NULL,
    scheduled_at TIMESTAMP WITH TIME ZONE NOT NULL,
    required_skills TEXT[] NOT NULL DEFAULT '{}',
    min_years_experience INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_min_experience CHECK (min_years_experience >= 0)
);

CREATE INDEX IF NOT EXISTS idx_lectures_scheduled_at ON guest_lectures(scheduled_at);
CREATE INDEX IF NOT EXISTS idx_lectures_course ON guest_lectures(course_name);

CREATE TABLE IF NOT EXISTS competitions (
    id VARCHAR(100) PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    case_domain VARCHAR(255) NOT NULL DEFAULT '',
    held_at TIMESTAMP WITH TIME ZONE NOT NULL,
    registration_deadline TIMESTAMP WITH TIME ZONE NOT NULL,
    required_skills TEXT[] NOT NULL DEFAULT '{}',
    judges_needed INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_judges_needed CHECK (judges_needed >= 0),
    CONSTRAINT deadline_before_event CHECK (registration_deadline <= held_at)
);

CREATE INDEX IF NOT EXISTS idx_competitions_held_at ON competitions(held_at);
CREATE INDEX IF NOT EXISTS idx_competitions_deadline ON competitions(registration_deadline);
`

const migration002Down = `
DROP TABLE IF EXISTS competitions;
DROP TABLE IF EXISTS guest_lectures;
DROP TABLE IF EXISTS events;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE INVITATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create invitations table
-- Version: 003
-- Purpose: Track who was invited where, with match provenance

CREATE TABLE IF NOT EXISTS invitations (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    recipient_id UUID NOT NULL REFERENCES stakeholder_profiles(id) ON DELETE CASCADE,
    recipient_name VARCHAR(200) NOT NULL,
    recipient_email VARCHAR(254) NOT NULL,
    subject_type VARCHAR(20) NOT NULL,
    subject_id VARCHAR(100) NOT NULL,
    subject_title VARCHAR(255) NOT NULL DEFAULT '',
    matched_terms TEXT[] NOT NULL DEFAULT '{}',
    match_reason TEXT NOT NULL DEFAULT '',
    match_score INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    sent_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    responded_at TIMESTAMP WITH TIME ZONE,
    follow_up_count INTEGER NOT NULL DEFAULT 0,
    last_follow_up_at TIMESTAMP WITH TIME ZONE,

    -- One invitation per stakeholder per subject
    UNIQUE(recipient_id, subject_type, subject_id),
    CONSTRAINT valid_subject_type CHECK (subject_type IN ('event', 'lecture', 'competition')),
    CONSTRAINT valid_invitation_status CHECK (status IN ('pending', 'accepted', 'declined')),
    CONSTRAINT valid_match_score CHECK (match_score >= 0 AND match_score <= 100),
    CONSTRAINT valid_follow_up_count CHECK (follow_up_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_invitations_recipient ON invitations(recipient_id);
CREATE INDEX IF NOT EXISTS idx_invitations_subject ON invitations(subject_type, subject_id);
CREATE INDEX IF NOT EXISTS idx_invitations_status ON invitations(status) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_invitations_sent_at ON invitations(sent_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS invitations;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ENGAGEMENT
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create engagement tracking tables
-- Version: 004
-- Purpose: Monthly engagement series and participant feedback

-- Ordered observations of the rolling engagement metric.
-- Position preserves chronology; period labels are display-only.
CREATE TABLE IF NOT EXISTS engagement_points (
    position SERIAL PRIMARY KEY,
    period VARCHAR(30) NOT NULL,
    value DOUBLE PRECISION NOT NULL,

    CONSTRAINT valid_engagement_value CHECK (value >= 0 AND value <= 100)
);

CREATE TABLE IF NOT EXISTS feedback_entries (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source VARCHAR(20) NOT NULL,
    subject_id VARCHAR(100) NOT NULL DEFAULT '',
    author_id VARCHAR(100) NOT NULL DEFAULT '',
    rating DECIMAL(3,1) NOT NULL,
    comments TEXT NOT NULL DEFAULT '',
    submitted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_feedback_source CHECK (source IN ('student', 'judge')),
    CONSTRAINT valid_feedback_rating CHECK (rating >= 1 AND rating <= 5)
);

CREATE INDEX IF NOT EXISTS idx_feedback_source ON feedback_entries(source);
CREATE INDEX IF NOT EXISTS idx_feedback_submitted_at ON feedback_entries(submitted_at DESC);
`

const migration004Down = `
DROP TABLE IF EXISTS feedback_entries;
DROP TABLE IF EXISTS engagement_points;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: APPRECIATION FLAGS
// ══════════════════════════════════════════════════════════════════════════════

const migration005Up = `
-- Migration: Track post-subject appreciation emails
-- Version: 005
-- Purpose: Each concluded subject is thanked once; the flag keeps the
--          daily sweep from re-mailing participants.

ALTER TABLE events ADD COLUMN IF NOT EXISTS appreciation_sent BOOLEAN NOT NULL DEFAULT FALSE;
ALTER TABLE guest_lectures ADD COLUMN IF NOT EXISTS appreciation_sent BOOLEAN NOT NULL DEFAULT FALSE;
ALTER TABLE competitions ADD COLUMN IF NOT EXISTS appreciation_sent BOOLEAN NOT NULL DEFAULT FALSE;

CREATE INDEX IF NOT EXISTS idx_events_unthanked ON events(starts_at) WHERE appreciation_sent = FALSE;
CREATE INDEX IF NOT EXISTS idx_lectures_unthanked ON guest_lectures(scheduled_at) WHERE appreciation_sent = FALSE;
CREATE INDEX IF NOT EXISTS idx_competitions_unthanked ON competitions(held_at) WHERE appreciation_sent = FALSE;
`

const migration005Down = `
DROP INDEX IF EXISTS idx_competitions_unthanked;
DROP INDEX IF EXISTS idx_lectures_unthanked;
DROP INDEX IF EXISTS idx_events_unthanked;
ALTER TABLE competitions DROP COLUMN IF EXISTS appreciation_sent;
ALTER TABLE guest_lectures DROP COLUMN IF EXISTS appreciation_sent;
ALTER TABLE events DROP COLUMN IF EXISTS appreciation_sent;
`
