package sourcedb

const queryActiveIDs = `
	SELECT id
	FROM advert
	WHERE type = ANY($1) AND is_closed = 0
	ORDER BY id`

const queryShareIDs = `
	SELECT DISTINCT adv.id
	FROM advert adv
	JOIN advert_param_value param ON param.unique_id = adv.unique_id
	WHERE adv.type = ANY($1) AND adv.is_closed = 0 AND param.param_id = $2
	ORDER BY adv.id`

// Многозначные поля склеиваются через "##", параметр - как "id~~значение".
const queryFetchRows = `
	SELECT
		adv.id,
		adv.type,
		COALESCE(adv.name, ''),
		COALESCE(adv.act, ''),
		COALESCE(adv.subcategory, ''),
		COALESCE(adv.category, ''),
		COALESCE(adv.price, 0)::float8,
		COALESCE(adv.city_id, 0)::bigint,
		COALESCE(ct.name, ''),
		COALESCE(ct.region_id, 0)::bigint,
		COALESCE(rgn.name, ''),
		COALESCE(adv.address, ''),
		COALESCE(adv.latitude, 0)::float8,
		COALESCE(adv.longitude, 0)::float8,
		COALESCE(adv.rooms, ''),
		COALESCE(adv.rooms_in_deal, ''),
		COALESCE(adv.description, ''),
		adv.created_date,
		adv.updated_date,
		COALESCE(string_agg(DISTINCT img.url, '##'), ''),
		COALESCE(string_agg(DISTINCT met.name, '##'), ''),
		COALESCE(string_agg(DISTINCT param.param_id || '~~' || param.value, '##'), ''),
		COALESCE(string_agg(DISTINCT ph.phone, '##'), '')
	FROM advert adv
	LEFT JOIN advert_image img ON img.unique_id = adv.unique_id
	LEFT JOIN advert_metro met ON met.unique_id = adv.unique_id
	LEFT JOIN advert_param_value param ON param.unique_id = adv.unique_id
	LEFT JOIN advert_phone ph ON ph.unique_id = adv.unique_id
	LEFT JOIN city ct ON ct.id = adv.city_id
	LEFT JOIN region rgn ON rgn.id = ct.region_id
	WHERE adv.type = ANY($1) AND adv.is_closed = 0 AND adv.id = ANY($2)
	GROUP BY adv.id, ct.name, ct.region_id, rgn.name
	ORDER BY adv.id`
