package store

// SQL query constants organized by entity.
// All SQL lives here. PostgresStore methods reference these constants.

// Listing queries.
const (
	queryUpsertListing = `
		INSERT INTO listings (
			id, agent_id, title, address, city, state, zip,
			price, bedrooms, bathrooms, sqft, property_type, status,
			features, photo_url, created_at, updated_at
		) VALUES (
			COALESCE(NULLIF(@id, ''), gen_random_uuid()::text),
			@agent_id, @title, @address, @city, @state, @zip,
			@price, @bedrooms, @bathrooms, @sqft, @property_type, @status,
			@features, @photo_url, now(), now()
		)
		ON CONFLICT (id) DO UPDATE SET
			agent_id      = EXCLUDED.agent_id,
			title         = EXCLUDED.title,
			address       = EXCLUDED.address,
			city          = EXCLUDED.city,
			state         = EXCLUDED.state,
			zip           = EXCLUDED.zip,
			price         = EXCLUDED.price,
			bedrooms      = EXCLUDED.bedrooms,
			bathrooms     = EXCLUDED.bathrooms,
			sqft          = EXCLUDED.sqft,
			property_type = EXCLUDED.property_type,
			status        = EXCLUDED.status,
			features      = EXCLUDED.features,
			photo_url     = EXCLUDED.photo_url,
			updated_at    = now()
		RETURNING id, created_at, updated_at`

	queryGetListing = `
		SELECT id, agent_id, title, address, city, state, zip,
			price, bedrooms, bathrooms, sqft, property_type, status,
			COALESCE(features, '[]'), COALESCE(photo_url, ''),
			created_at, updated_at
		FROM listings
		WHERE id = $1`

	queryListActiveListings = `
		SELECT id, agent_id, title, address, city, state, zip,
			price, bedrooms, bathrooms, sqft, property_type, status,
			COALESCE(features, '[]'), COALESCE(photo_url, ''),
			created_at, updated_at
		FROM listings
		WHERE status = 'active'
		ORDER BY updated_at DESC, id ASC`

	querySetListingStatus = `
		UPDATE listings SET
			status = $2,
			updated_at = now()
		WHERE id = $1`

	queryDeleteListing = `DELETE FROM listings WHERE id = $1`
)

// Saved search queries.
const (
	queryCreateSavedSearch = `
		INSERT INTO saved_searches (
			buyer_id, name, criteria, enabled, created_at, updated_at
		) VALUES (
			@buyer_id, @name, @criteria, @enabled, now(), now()
		)
		RETURNING id, created_at, updated_at`

	queryGetSavedSearch = `
		SELECT id, buyer_id, name, criteria, enabled, last_run_at, created_at, updated_at
		FROM saved_searches
		WHERE id = $1`

	queryListSavedSearchesAll = `
		SELECT id, buyer_id, name, criteria, enabled, last_run_at, created_at, updated_at
		FROM saved_searches
		ORDER BY created_at DESC`

	queryListSavedSearchesEnabled = `
		SELECT id, buyer_id, name, criteria, enabled, last_run_at, created_at, updated_at
		FROM saved_searches
		WHERE enabled = true
		ORDER BY created_at DESC`

	queryListSavedSearchesByBuyer = `
		SELECT id, buyer_id, name, criteria, enabled, last_run_at, created_at, updated_at
		FROM saved_searches
		WHERE buyer_id = $1
		ORDER BY created_at DESC`

	queryUpdateSavedSearch = `
		UPDATE saved_searches SET
			name       = @name,
			criteria   = @criteria,
			enabled    = @enabled,
			updated_at = now()
		WHERE id = @id`

	queryDeleteSavedSearch = `DELETE FROM saved_searches WHERE id = $1`

	querySetSavedSearchEnabled = `
		UPDATE saved_searches SET
			enabled = $2,
			updated_at = now()
		WHERE id = $1`

	queryUpdateSearchLastRun = `
		UPDATE saved_searches SET last_run_at = $2 WHERE id = $1`
)

// Alert queries.
const (
	queryCreateAlert = `
		INSERT INTO alerts (saved_search_id, new_listing_ids, created_at)
		VALUES ($1, $2, now())
		RETURNING id, created_at`

	queryListAlertsBySearch = `
		SELECT id, saved_search_id, new_listing_ids, notified, notified_at, created_at
		FROM alerts
		WHERE saved_search_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	queryListPendingAlerts = `
		SELECT id, saved_search_id, new_listing_ids, notified, notified_at, created_at
		FROM alerts
		WHERE notified = false
		ORDER BY created_at ASC`

	queryMarkAlertNotified = `
		UPDATE alerts SET
			notified = true,
			notified_at = now()
		WHERE id = $1`

	queryMarkAlertsNotified = `
		UPDATE alerts SET
			notified = true,
			notified_at = now()
		WHERE id = ANY($1)`

	queryListAlertedListingIDs = `
		SELECT DISTINCT jsonb_array_elements_text(new_listing_ids)
		FROM alerts
		WHERE saved_search_id = $1`
)

// View event queries.
const (
	queryInsertViewEvent = `
		INSERT INTO view_events (
			listing_id, buyer_session_id, viewer_type, view_duration,
			images_viewed, videos_watched, sections_visited, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	queryListViewEventsByListing = `
		SELECT id, listing_id, buyer_session_id, viewer_type, view_duration,
			images_viewed, videos_watched, sections_visited, ts
		FROM view_events
		WHERE listing_id = $1 AND ts >= $2
		ORDER BY ts ASC`

	queryListViewEventsByBuyerListing = `
		SELECT id, listing_id, buyer_session_id, viewer_type, view_duration,
			images_viewed, videos_watched, sections_visited, ts
		FROM view_events
		WHERE buyer_session_id = $1 AND listing_id = $2 AND ts >= $3
		ORDER BY ts ASC`

	queryListBuyerListingPairs = `
		SELECT DISTINCT buyer_session_id, listing_id
		FROM view_events
		WHERE buyer_session_id IS NOT NULL AND ts >= $1`
)

// Scheduler queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name)
		VALUES ($1)
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = now(),
			status       = $2,
			error_text   = NULLIF($3, '')
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at, status, COALESCE(error_text, '')
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name)
			id, job_name, started_at, completed_at, status, COALESCE(error_text, '')
		FROM job_runs
		ORDER BY job_name, started_at DESC`

	queryMarkStaleJobRunsCrashed = `
		UPDATE job_runs SET
			status       = 'crashed',
			completed_at = now()
		WHERE status = 'running' AND started_at < $1`

	queryDeleteOldJobRuns = `
		DELETE FROM job_runs WHERE started_at < now() - interval '30 days'`

	queryAcquireLock = `
		INSERT INTO locks (name, lock_holder, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
			SET locked_at   = now(),
				lock_holder = EXCLUDED.lock_holder,
				expires_at  = EXCLUDED.expires_at
			WHERE locks.expires_at < now()
		RETURNING name`

	queryReleaseLock = `
		DELETE FROM locks WHERE name = $1 AND lock_holder = $2`
)
