package sanity

const summaryProjection = `{
  _id,
  title,
  category,
  "slug": slug.current,
  "titleImage": titleImage.asset->url,
  excerpt,
  readTime,
  author,
  _createdAt
}`

const detailProjection = `{
  _id,
  title,
  "slug": slug.current,
  category,
  topics,
  "titleImage": titleImage.asset->url,
  excerpt,
  content[]{
    ...,
    _type == "image" => {
      ...,
      "url": asset->url,
      "alt": alt
    }
  },
  readTime,
  author,
  authorRole,
  _createdAt
}`

const (
	postsQuery = `*[_type == 'blog'
  && ($category == 'all' || category == $category)
  && (
      !defined($search) ||
      title match '*' + $search + '*' ||
      excerpt match '*' + $search + '*'
    )
  ] | order(_createdAt desc) ` + summaryProjection

	featuredQuery = `*[_type == 'blog'] | order(_createdAt desc) [0] ` + summaryProjection

	categoriesQuery = `array::unique(*[_type == "blog"].category)`

	metaQuery = `*[_type == "blog" && slug.current == $slug][0]{
  title,
  excerpt,
  "slug": slug.current,
  "image": titleImage.asset->url
}`

	detailQuery = `*[_type == 'blog' && slug.current == $slug] ` + detailProjection + `[0]`

	allPostsQuery = `*[_type == 'blog'] | order(_createdAt desc) ` + detailProjection
)
