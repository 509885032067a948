// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shaders

// Vertex input names.
const (
	AttrPosition   = "position"
	AttrLayer      = "layer"
	AttrColor      = "color"
	AttrOrigin     = "origin"
	AttrSize       = "size"
	AttrRoundness  = "roundness"
	AttrBlurRadius = "blurRadius"
	AttrTexCoord   = "texCoord"
	AttrClipX      = "clipX"
	AttrClipY      = "clipY"
	AttrClipSize   = "clipSize"
)

// Uniform names.
const (
	UniformProjection = "projMat"
	UniformModelView  = "mvMat"
	UniformSampler    = "sampler"
	UniformAtlasSize  = "atlasSize"
	UniformColorKey   = "colorKey"
)

// FragOut is the name of the fragment color output.
const FragOut = "fragColor"

// MaxDepth is the exclusive upper bound of the per vertex layer
// value, which is a distance from the viewer: larger values are
// further back.
const MaxDepth = 1 << 20

// NoClip is the clipX value of vertices that are not clipped.
const NoClip = 0xFFFFFFFF

// vertexCommon declares the inputs every program has, and place,
// which sets the color and pixel position outputs and returns the
// clip space position. Pixel centers are at +0.49 so that integer
// rectangles cover whole pixels.
const vertexCommon = `
in ivec2 position;
in uint layer;
in uvec4 color;

uniform mat4 projMat;
uniform mat4 mvMat;

out vec4 vColor;
out vec2 vPos;

vec4 place() {
	vec2 pos = vec2(position) + vec2(0.49);
	vPos = pos;
	vColor = vec4(color) / 255.0;
	return projMat * mvMat * vec4(pos, -float(layer) / 1048576.0, 1.0);
}
`

const fragmentCommon = `
in vec4 vColor;
in vec2 vPos;

out vec4 fragColor;
`

const polygonVertex = vertexCommon + `
void main() {
	gl_Position = place();
}
`

const polygonFragment = fragmentCommon + `
void main() {
	fragColor = vColor;
}
`

// shapeVertex passes the bounding box and the roundness and blur radius
// of the primitive to the fragment shader.
const shapeVertex = vertexCommon + `
in ivec2 origin;
in ivec2 size;
in uint roundness;
in uint blurRadius;

flat out vec2 vOrigin;
flat out vec2 vSize;
flat out float vRoundness;
flat out float vBlur;

void main() {
	vOrigin = vec2(origin);
	vSize = vec2(size);
	vRoundness = float(roundness);
	vBlur = float(blurRadius);
	gl_Position = place();
}
`

const shapeFragmentCommon = fragmentCommon + `
flat in vec2 vOrigin;
flat in vec2 vSize;
flat in float vRoundness;
flat in float vBlur;

// superellipse returns the normalized distance of p from the center of a
// superellipse with half extents h: 1 on the border.
float superellipse(vec2 p, vec2 h, float n) {
	vec2 d = abs(p) / max(h, vec2(0.5));
	return pow(pow(d.x, n) + pow(d.y, n), 1.0 / n);
}

// blurFade returns the alpha factor of the pixel at distance dist
// outside the opaque core of a blurred edge of width r.
float blurFade(float dist, float r) {
	if (dist <= 0.0) {
		return 1.0;
	}
	if (dist >= r) {
		discard;
	}
	float f = 1.0 - dist / r;
	return f * f;
}
`

const ellipseFragment = shapeFragmentCommon + `
void main() {
	if (superellipse(vPos - vOrigin, vSize * 0.5, vRoundness) > 1.0) {
		discard;
	}
	fragColor = vColor;
}
`

const blurRectFragment = shapeFragmentCommon + `
void main() {
	vec2 p = abs(vPos - vOrigin);
	vec2 inner = vSize * 0.5 - vec2(vBlur);
	vec2 d = p - inner;
	fragColor = vec4(vColor.rgb, vColor.a * blurFade(max(d.x, d.y), vBlur));
}
`

const blurEllipseFragment = shapeFragmentCommon + `
void main() {
	vec2 h = vSize * 0.5;
	vec2 inner = max(h - vec2(vBlur), vec2(0.5));
	float e = superellipse(vPos - vOrigin, inner, vRoundness);
	float dist = (e - 1.0) * min(inner.x, inner.y);
	fragColor = vec4(vColor.rgb, vColor.a * blurFade(dist, vBlur));
}
`

const textureVertex = vertexCommon + `
in ivec2 texCoord;
in uint clipX;
in uint clipY;
in ivec2 clipSize;

uniform vec2 atlasSize;

out vec2 vTexCoord;
flat out vec4 vClip;
flat out float vClipped;

void main() {
	vTexCoord = vec2(texCoord) / atlasSize;
	vClipped = clipX == 0xffffffffu ? 0.0 : 1.0;
	vClip = vec4(float(clipX), float(clipY), vec2(clipSize));
	gl_Position = place();
}
`

const textureFragment = fragmentCommon + `
in vec2 vTexCoord;
flat in vec4 vClip;
flat in float vClipped;

uniform sampler2D sampler;
uniform vec4 colorKey;

void main() {
	if (vClipped > 0.5 && (vPos.x < vClip.x || vPos.y < vClip.y ||
		vPos.x >= vClip.x + vClip.z || vPos.y >= vClip.y + vClip.w)) {
		discard;
	}
	vec4 c = texture(sampler, vTexCoord);
	if (colorKey.a > 0.5 && all(equal(c.rgb, colorKey.rgb))) {
		discard;
	}
	fragColor = c * vColor;
}
`
