package titan

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

// AssetBackend turns decoded data into GPU objects. The headless backend
// keeps everything on the CPU.
type AssetBackend interface {
	NewTexture2D(img image.Image) (Texture2D, error)
	NewTextureCubeMap(faces [6]image.Image) (TextureCubeMap, error)
	NewMesh(data *MeshData) (Mesh, error)
	NewShader(vertexSource, fragmentSource string) (Shader, error)
	NewDefaultShader(vertex, fragment DefaultShader) (Shader, error)
}

type assetKind int

const (
	assetTexture assetKind = iota
	assetSkybox
	assetMesh
	assetMorphMesh
	assetShader
	assetDefaultShader
)

func (k assetKind) String() string {
	return [...]string{"texture", "skybox", "mesh", "morph mesh", "shader", "default shader"}[k]
}

type assetRequest struct {
	kind   assetKind
	name   string
	file   string
	frag   string
	frames int

	vertDefault DefaultShader
	fragDefault DefaultShader
}

// AssetSystem stores named textures, skyboxes, meshes, shaders and materials.
// File assets are registered into numbered sets and loaded either all at once
// or one asset per Update.
type AssetSystem struct {
	root    string
	backend AssetBackend
	log     Logger

	textures  map[string]Texture2D
	skyboxes  map[string]TextureCubeMap
	meshes    map[string]Mesh
	shaders   map[string]Shader
	materials map[string]*Material

	sets   map[int][]assetRequest
	loaded map[int]bool

	queue  []int
	cursor int
}

// AssetModule gives the app an asset system over the given backend, or over
// the headless backend when Backend is nil.
type AssetModule struct {
	Root    string
	Backend AssetBackend
}

func (m AssetModule) Install(app *App) {
	backend := m.Backend
	if backend == nil {
		backend = NewHeadlessBackend()
	}
	app.assets = NewAssetSystem(m.Root, backend, app.logger)
}

// NewAssetSystem resolves relative file names against root.
func NewAssetSystem(root string, backend AssetBackend, log Logger) *AssetSystem {
	return &AssetSystem{
		root:      root,
		backend:   backend,
		log:       orNop(log),
		textures:  make(map[string]Texture2D),
		skyboxes:  make(map[string]TextureCubeMap),
		meshes:    make(map[string]Mesh),
		shaders:   make(map[string]Shader),
		materials: make(map[string]*Material),
		sets:      make(map[int][]assetRequest),
		loaded:    make(map[int]bool),
	}
}

func (a *AssetSystem) Backend() AssetBackend { return a.backend }

func (a *AssetSystem) add(set int, req assetRequest) (string, error) {
	if set < 0 {
		return "", fmt.Errorf("asset set %d: %w", set, ErrConfig)
	}
	if req.name == "" {
		req.name = makeAssetName()
	}
	a.sets[set] = append(a.sets[set], req)
	a.loaded[set] = false
	return req.name, nil
}

// AddTexture2DToBeLoaded registers an image file. An empty name gets a
// generated one, which is returned.
func (a *AssetSystem) AddTexture2DToBeLoaded(name, file string, set int) (string, error) {
	return a.add(set, assetRequest{kind: assetTexture, name: name, file: file})
}

// AddSkyboxToBeLoaded registers a cube map; file names the stem the six
// face suffixes are added to.
func (a *AssetSystem) AddSkyboxToBeLoaded(name, file string, set int) (string, error) {
	return a.add(set, assetRequest{kind: assetSkybox, name: name, file: file})
}

func (a *AssetSystem) AddMeshToBeLoaded(name, file string, set int) (string, error) {
	return a.add(set, assetRequest{kind: assetMesh, name: name, file: file})
}

// AddMorphMeshToBeLoaded registers base_1.obj .. base_frames.obj as one mesh.
func (a *AssetSystem) AddMorphMeshToBeLoaded(name, base string, frames int, set int) (string, error) {
	if frames < 1 {
		return "", fmt.Errorf("morph mesh %q with %d frames: %w", base, frames, ErrConfig)
	}
	return a.add(set, assetRequest{kind: assetMorphMesh, name: name, file: base, frames: frames})
}

func (a *AssetSystem) AddShaderToBeLoaded(name, vertFile, fragFile string, set int) (string, error) {
	return a.add(set, assetRequest{kind: assetShader, name: name, file: vertFile, frag: fragFile})
}

func (a *AssetSystem) AddDefaultShaderToBeLoaded(name string, vert, frag DefaultShader, set int) (string, error) {
	return a.add(set, assetRequest{kind: assetDefaultShader, name: name, vertDefault: vert, fragDefault: frag})
}

// CreateMaterial stores a fresh material under name, replacing any other.
func (a *AssetSystem) CreateMaterial(name string) *Material {
	m := NewMaterial()
	a.materials[name] = m
	return m
}

func (a *AssetSystem) AddTexture2D(name string, t Texture2D)   { a.textures[name] = t }
func (a *AssetSystem) AddSkybox(name string, t TextureCubeMap) { a.skyboxes[name] = t }
func (a *AssetSystem) AddMesh(name string, m Mesh)             { a.meshes[name] = m }
func (a *AssetSystem) AddShader(name string, s Shader)         { a.shaders[name] = s }
func (a *AssetSystem) AddMaterial(name string, m *Material)    { a.materials[name] = m }

func (a *AssetSystem) Texture2D(name string) (Texture2D, bool) {
	t, ok := a.textures[name]
	return t, ok
}

func (a *AssetSystem) Skybox(name string) (TextureCubeMap, bool) {
	t, ok := a.skyboxes[name]
	return t, ok
}

func (a *AssetSystem) Mesh(name string) (Mesh, bool) {
	m, ok := a.meshes[name]
	return m, ok
}

func (a *AssetSystem) Shader(name string) (Shader, bool) {
	s, ok := a.shaders[name]
	return s, ok
}

func (a *AssetSystem) Material(name string) (*Material, bool) {
	m, ok := a.materials[name]
	return m, ok
}

// SetLoaded reports whether every asset registered in set is loaded.
func (a *AssetSystem) SetLoaded(set int) bool { return a.loaded[set] }

// CurrentSet is the set being loaded in the background, if any.
func (a *AssetSystem) CurrentSet() (int, bool) {
	if len(a.queue) == 0 {
		return 0, false
	}
	return a.queue[0], true
}

// ordered lists the set's requests by kind, keeping registration order
// within a kind.
func (a *AssetSystem) ordered(set int) []assetRequest {
	reqs := slices.Clone(a.sets[set])
	slices.SortStableFunc(reqs, func(x, y assetRequest) int { return int(x.kind) - int(y.kind) })
	return reqs
}

// LoadSetNow loads the whole set before returning. It stops at the first
// asset that fails; assets loaded before it stay available.
func (a *AssetSystem) LoadSetNow(set int) error {
	for _, req := range a.ordered(set) {
		if err := a.load(req); err != nil {
			return err
		}
	}
	a.loaded[set] = true
	a.log.Debugf("asset set %d loaded", set)
	return nil
}

// LoadSetInBackground queues set; Update then loads one asset per call.
func (a *AssetSystem) LoadSetInBackground(set int) {
	a.queue = append(a.queue, set)
}

// Update loads the next queued asset. A failed asset is skipped after being
// reported, so one bad file does not stall the queue.
func (a *AssetSystem) Update() error {
	for len(a.queue) > 0 {
		set := a.queue[0]
		reqs := a.ordered(set)
		if a.cursor >= len(reqs) {
			a.loaded[set] = true
			a.queue = a.queue[1:]
			a.cursor = 0
			a.log.Debugf("asset set %d loaded in background", set)
			continue
		}
		req := reqs[a.cursor]
		a.cursor++
		if a.cursor == len(reqs) {
			a.loaded[set] = true
			a.queue = a.queue[1:]
			a.cursor = 0
		}
		return a.load(req)
	}
	return nil
}

func (a *AssetSystem) path(file string) string {
	if a.root == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(a.root, file)
}

func (a *AssetSystem) load(req assetRequest) error {
	if err := a.loadOne(req); err != nil {
		a.log.Errorf("load %s %q: %v", req.kind, req.name, err)
		return fmt.Errorf("%s %q: %w", req.kind, req.name, err)
	}
	return nil
}

func (a *AssetSystem) loadOne(req assetRequest) error {
	switch req.kind {
	case assetTexture:
		img, err := LoadImage(a.path(req.file))
		if err != nil {
			return err
		}
		t, err := a.backend.NewTexture2D(img)
		if err != nil {
			return err
		}
		a.textures[req.name] = t

	case assetSkybox:
		faces, err := LoadCubeFaces(a.path(req.file))
		if err != nil {
			return err
		}
		t, err := a.backend.NewTextureCubeMap(faces)
		if err != nil {
			return err
		}
		a.skyboxes[req.name] = t

	case assetMesh, assetMorphMesh:
		var data *MeshData
		var err error
		if req.kind == assetMesh {
			data, err = LoadOBJ(a.path(req.file))
		} else {
			data, err = LoadMorphOBJ(a.path(req.file), req.frames)
		}
		if err != nil {
			return err
		}
		m, err := a.backend.NewMesh(data)
		if err != nil {
			return err
		}
		m.SetUpVao(0, 0)
		a.meshes[req.name] = m

	case assetShader:
		vs, err := os.ReadFile(a.path(req.file))
		if err != nil {
			return fmt.Errorf("read vertex stage: %v: %w", err, ErrFatalSetup)
		}
		fs, err := os.ReadFile(a.path(req.frag))
		if err != nil {
			return fmt.Errorf("read fragment stage: %v: %w", err, ErrFatalSetup)
		}
		s, err := a.backend.NewShader(string(vs), string(fs))
		if err != nil {
			return err
		}
		a.shaders[req.name] = s

	case assetDefaultShader:
		s, err := a.backend.NewDefaultShader(req.vertDefault, req.fragDefault)
		if err != nil {
			return err
		}
		a.shaders[req.name] = s
	}
	return nil
}

func makeAssetName() string {
	return uuid.NewString()
}
