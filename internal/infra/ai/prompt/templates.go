package prompt

const systemPrompt = `You are a UI/UX analysis expert who specialises in interface design and wireframe creation. Describe only what is visible in the screenshots and keep the answer structured so it can be turned into wireframe data.`

const platformChromeRules = `GUIDELINES:
- Ignore platform chrome (CMS admin sidebars, browser bars, standard store navigation).
- Focus on the main content area and on elements specific to this application.
- Do not describe generic headers, footers or admin menus unless they carry app features.`

const imageAnalysisTemplate = `Analyze this application UI screenshot of "%s" and provide:
1. Overall screen description and purpose
2. UI components (buttons, forms, navigation, tables, cards, ...)
3. Visible text content
4. Layout structure and organisation
5. Interactive elements and the features they expose
6. Screen type (dashboard, form, list, detail, settings, ...)

` + platformChromeRules + `

Format the response as structured information for extracting application wireframe data.`

const featureAnalysisTemplate = `You are given %d screenshots that together make up the feature "%s".

FEATURE ANALYSIS REQUIREMENTS:

1. **Screen grouping**:
   - Group the screenshots by the screen they show
   - For each screen give a short description and its UI layout

2. **Workflow**:
   - Describe the user workflow that connects the screens, in order
   - Note the actions that move the user from one screen to the next

3. **Feature list**:
   - List the features visible in the screenshots with a short description
   - Say which screen each feature belongs to

4. **MVP assessment**:
   - Flag each feature as MVP or post-MVP and give a one-line reason

` + platformChromeRules + `

Return a detailed analysis with one clear section per requirement above.`

const screenStateTemplate = `Analyze these %d screenshots showing the SAME SCREEN "%s" in different states and interactions.

All screenshots are of one screen; they differ by UI state, interaction or overlay.

SCREEN STATE ANALYSIS REQUIREMENTS:

1. **Base screen**:
   - Identify the layout shared by every screenshot
   - Describe the purpose of the screen

2. **Interaction deltas**:
   - For each screenshot describe what changed relative to the base state
   - Identify the interactive elements involved (buttons, forms, dropdowns, modals)
   - Map the interaction flow between states

3. **UX assessment**:
   - Strengths of the current design
   - Usability issues and information architecture problems

4. **Wireframe recommendation**:
   - Name the sections of the screen that should be improved
   - Provide an ASCII-art wireframe for every improved section
   - Apply accessibility, mobile-first and clear hierarchy principles

` + platformChromeRules + `

Return a detailed analysis with clear sections for each requirement above.`

const patternExtractionTemplate = `You are a UX/UI expert extracting reusable design patterns from screenshot %d of %d of existing applications similar to "%s".

Identify:

1. **Layout structure**: navigation pattern (top bar, sidebar, breadcrumbs), content organisation (grid, list, cards, tables), visual grouping and hierarchy.
2. **Component patterns**: form elements and validation, data display widgets, filters, search, bulk actions, tabs, pagination, sorting.
3. **Functional patterns**: workflows, CRUD and bulk operations, status indicators and feedback, permissions.
4. **Design principles**: information density, spacing, visual hierarchy, accessibility.

Focus on patterns that could inspire the design of a new application. Return the analysis as structured JSON with one key per category.`

const wireframeGenerationTemplate = `You are a senior UX designer creating wireframes for a NEW application feature.

**Feature:** %s

**Design patterns extracted from example screenshots:**
%s

**Task:** design wireframes inspired by these patterns but clearly more capable than the examples.

Specify:
- Navigation: menu items, breadcrumbs, user controls
- Forms: field types, validation rules, helper text
- Tables: columns, sorting, filtering, row actions
- Cards: content structure, metadata, action buttons
- Search and filters, bulk operations, export/import
- Role-based access, empty/error states, responsive behaviour

**Output format:** wireframe DSL using SCREEN, SECTION and COMPONENT blocks, covering
Header/Navigation, Main Content, Sidebar/Filters, Forms, Data Display, Actions and Footer/Status.
Describe function and behaviour, not visual styling.`

const wireframeRefinementTemplate = `You are a UX expert reviewing a wireframe specification.

**Current wireframe:**
%s

**Refinement task:** keep the DSL structure and add what is missing:
1. Standard components that are absent
2. Interaction details (exact button text, field labels, shortcuts)
3. Data relationships between elements
4. Error, empty and loading states
5. Power-user features
6. Integration points and data sources
7. Pagination, lazy loading and other performance concerns

Return the complete refined wireframe.`
